package build

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"strconv"
	"time"
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// Checksum returns the CRC32 (Castagnoli) of content as hex.
func Checksum(content []byte) string {
	return strconv.FormatUint(uint64(crc32.Checksum(content, crcTable)), 16)
}

// Manifest records what one run wrote.
type Manifest struct {
	BuildID     string         `json:"build_id"`
	Target      string         `json:"target"`
	Engine      string         `json:"engine"`
	GeneratedAt time.Time      `json:"generated_at"`
	Pages       []ManifestPage `json:"pages"`
	TotalBytes  uint64         `json:"total_bytes"`
}

// ManifestPage is one written page.
type ManifestPage struct {
	Src      string `json:"src"`
	Dest     string `json:"dest"`
	Assets   string `json:"assets"`
	Bytes    int    `json:"bytes"`
	Checksum string `json:"checksum"`
}

// NewManifest builds a manifest from the pages of result that succeeded.
func NewManifest(result *Result) *Manifest {
	m := &Manifest{
		BuildID:     result.BuildID,
		Target:      result.Target,
		Engine:      result.Engine,
		GeneratedAt: result.StartedAt.UTC(),
		Pages:       make([]ManifestPage, 0, len(result.Pages)),
		TotalBytes:  result.Bytes,
	}
	for _, page := range result.Pages {
		if page.Err != nil {
			continue
		}
		m.Pages = append(m.Pages, ManifestPage{
			Src:      page.Src,
			Dest:     page.Dest,
			Assets:   page.Assets,
			Bytes:    page.Bytes,
			Checksum: page.Checksum,
		})
	}
	return m
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m *Manifest) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return writeFile(path, append(raw, '\n'))
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return &m, nil
}
