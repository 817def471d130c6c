package disk

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Geometry names a (block size, block count) pair for a disk image, the way
// a real storage device's physical geometry would. SFS has no physical
// geometry of its own -- these are purely convenience presets for building
// demo or test images without spelling out raw numbers.
type Geometry struct {
	Name        string `csv:"name"`
	Slug        string `csv:"slug"`
	BlockSize   int    `csv:"block_size"`
	TotalBlocks int    `csv:"total_blocks"`
	Notes       string `csv:"notes"`
}

// TotalSizeBytes gives the size, in bytes, of an image built from this
// geometry.
func (g *Geometry) TotalSizeBytes() int64 {
	return int64(g.BlockSize) * int64(g.TotalBlocks)
}

//go:embed geometry.csv
var rawGeometryCSV string

var geometries map[string]Geometry

// GetGeometry looks up a predefined geometry by slug (e.g. "tiny",
// "default"). It returns an error if no such preset exists.
func GetGeometry(slug string) (Geometry, error) {
	g, ok := geometries[slug]
	if ok {
		return g, nil
	}
	return Geometry{}, fmt.Errorf("no predefined disk geometry with slug %q", slug)
}

// NewFromGeometry builds a zero-filled MemoryDisk sized according to a
// predefined geometry slug.
func NewFromGeometry(slug string) (*MemoryDisk, error) {
	g, err := GetGeometry(slug)
	if err != nil {
		return nil, err
	}
	return NewMemory(g.BlockSize, g.TotalBlocks), nil
}

func init() {
	geometries = make(map[string]Geometry)
	reader := strings.NewReader(rawGeometryCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Geometry) error {
		if _, exists := geometries[row.Slug]; exists {
			return fmt.Errorf("duplicate disk geometry slug %q", row.Slug)
		}
		geometries[row.Slug] = row
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("disk: failed to load built-in geometry presets: %v", err))
	}
}
