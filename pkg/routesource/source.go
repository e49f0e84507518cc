package routesource

import (
	"context"

	"github.com/vango-go/routesync/pkg/routetable"
)

// Source produces a route table.
type Source interface {
	// Load reads the current table. The returned table is validated.
	Load(ctx context.Context) (routetable.Table, error)

	// String describes the source for logs.
	String() string
}

// FileSource reads a JSON or YAML file, chosen by extension.
type FileSource struct {
	Path string
}

// Load implements Source.
func (f FileSource) Load(ctx context.Context) (routetable.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return routetable.Load(f.Path)
}

func (f FileSource) String() string { return "file:" + f.Path }
