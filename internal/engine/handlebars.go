package engine

import (
	"fmt"

	"github.com/aymerick/raymond"

	"github.com/brandscale/pagesmith/internal/errors"
)

// Handlebars renders Handlebars and Mustache templates with raymond.
//
// Partials are registered on the compiled layout rather than in raymond's
// process-wide partial table, so sets never see each other's partials.
type Handlebars struct{}

// NewHandlebars returns the Handlebars engine.
func NewHandlebars() *Handlebars {
	return &Handlebars{}
}

// Name implements Engine.
func (h *Handlebars) Name() string { return "handlebars" }

// NewSet implements Engine.
func (h *Handlebars) NewSet(layoutName, layoutSource string) (Set, error) {
	layout, err := parse(layoutSource)
	if err != nil {
		return nil, errors.NewEngineError(errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("failed to compile layout %q", layoutName), err)
	}

	return &handlebarsSet{
		layout:   layout,
		partials: make(map[string]*raymond.Template),
	}, nil
}

type handlebarsSet struct {
	layout   *raymond.Template
	partials map[string]*raymond.Template
	order    []string
	frozen   bool
}

func (s *handlebarsSet) AddPartial(name, source string) error {
	if s.frozen {
		return errors.NewEngineError(errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("cannot add partial %q after rendering started", name), nil)
	}
	if name == BodyPartial {
		return errors.NewEngineError(errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("partial name %q is reserved for the page", BodyPartial), nil)
	}

	tpl, err := parse(source)
	if err != nil {
		return errors.NewEngineError(errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("failed to compile partial %q", name), err)
	}

	if _, exists := s.partials[name]; !exists {
		s.order = append(s.order, name)
	}
	s.partials[name] = tpl
	return nil
}

func (s *handlebarsSet) Render(pageName, pageSource string, ctx map[string]interface{}) (string, error) {
	if !s.frozen {
		for _, name := range s.order {
			s.layout.RegisterPartialTemplate(name, s.partials[name])
		}
		s.frozen = true
	}

	page, err := parse(pageSource)
	if err != nil {
		return "", errors.NewEngineError(errors.ErrCodeTemplateInvalid,
			fmt.Sprintf("failed to compile page %q", pageName), err)
	}

	tpl := s.layout.Clone()
	tpl.RegisterPartialTemplate(BodyPartial, page)

	out, err := tpl.Exec(ctx)
	if err != nil {
		return "", errors.NewRenderError(fmt.Sprintf("failed to render page %q", pageName), err)
	}
	return out, nil
}

// parse turns raymond's parse panics into errors.
func parse(source string) (tpl *raymond.Template, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return raymond.Parse(source)
}
