package build

import (
	"path/filepath"

	"github.com/brandscale/pagesmith/internal/config"
	"github.com/brandscale/pagesmith/internal/errors"
	"github.com/brandscale/pagesmith/internal/scanner"
)

// TargetPlan is everything known about a target before any template runs.
type TargetPlan struct {
	Target   config.Target  `json:"target" yaml:"target"`
	Options  config.Options `json:"options" yaml:"options"`
	Mappings []MappingPlan  `json:"mappings" yaml:"mappings"`
}

// MappingPlan is the expanded form of one dest/src mapping.
type MappingPlan struct {
	Dest     string             `json:"dest" yaml:"dest"`
	BasePath string             `json:"base_path" yaml:"base_path"`
	Sources  []string           `json:"sources" yaml:"sources"`
	Pages    []scanner.PagePlan `json:"pages" yaml:"pages"`
}

// FirstSource returns the first expanded source file, or "".
func (p *TargetPlan) FirstSource() string {
	for _, m := range p.Mappings {
		if len(m.Sources) > 0 {
			return m.Sources[0]
		}
	}
	return ""
}

// Pages returns the pages of every mapping in order.
func (p *TargetPlan) Pages() []scanner.PagePlan {
	var pages []scanner.PagePlan
	for _, m := range p.Mappings {
		pages = append(pages, m.Pages...)
	}
	return pages
}

// PlanTarget resolves a target's options and works out every page it
// produces. It checks, in order, that each mapping has src patterns, that
// they match files, and that it has a dest.
func PlanTarget(cfg *config.Config, target config.Target, overrides map[string]interface{}) (*TargetPlan, error) {
	opts, err := cfg.ResolveOptions(target, overrides)
	if err != nil {
		return nil, err
	}

	if len(target.Files) == 0 {
		return nil, errors.ErrMissingSrc().WithTarget(target.Name)
	}

	plan := &TargetPlan{Target: target, Options: opts}
	for _, mapping := range target.Files {
		if len(mapping.Src) == 0 {
			return nil, errors.ErrMissingSrc().WithTarget(target.Name)
		}

		sources, err := scanner.Expand(mapping.Src)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeSrcNotFound,
				"failed to expand src patterns").WithTarget(target.Name)
		}
		if len(sources) == 0 {
			return nil, errors.ErrSrcNotFound(mapping.Src).WithTarget(target.Name)
		}

		if mapping.Dest == "" {
			return nil, errors.ErrMissingDest().WithTarget(target.Name)
		}

		base := scanner.BasePath(sources, opts.BasePath, opts.ExpandBase)
		pages, err := scanner.Plan(sources, scanner.PlanOptions{
			Dest:     mapping.Dest,
			BasePath: base,
			Assets:   opts.Assets,
			Flatten:  opts.Flatten,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, errors.ErrCodeReadFailed,
				"failed to plan pages").WithTarget(target.Name)
		}

		plan.Mappings = append(plan.Mappings, MappingPlan{
			Dest:     filepath.Clean(mapping.Dest),
			BasePath: base,
			Sources:  sources,
			Pages:    pages,
		})
	}

	return plan, nil
}
