package seed

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/rihla-app/localbase/internal/row"
)

// LoadError represents an error that occurred during seed loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants shared with the CLI's output formatting.
const (
	ErrCodeNotFound    = "E001" // Path not found
	ErrCodeNoFiles     = "E002" // No CUE files found
	ErrCodeLoadFailed  = "E003" // CUE load failed
	ErrCodeBuildFailed = "E004" // CUE build failed
	ErrCodeBadShape    = "E005" // Seed structure invalid
	ErrCodeBadRow      = "E006" // Row value invalid
)

// LoadDir loads a seed definition from every .cue file in a directory. The
// expected shape is a top-level "collection" struct mapping collection names
// to lists of rows:
//
//	collection: trips: [{id: "trip-1", status: "requested"}]
func LoadDir(dir string) (*Seed, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("seed directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing seed directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	return decodeSeed(value)
}

func decodeSeed(value cue.Value) (*Seed, error) {
	collections := value.LookupPath(cue.ParsePath("collection"))
	if !collections.Exists() {
		return nil, &LoadError{Code: ErrCodeBadShape, Message: "no top-level \"collection\" struct found"}
	}

	iter, err := collections.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadShape, Message: fmt.Sprintf("iterating collections: %v", err), Pos: collections.Pos()}
	}

	seed := &Seed{Collections: map[string][]row.Row{}}
	for iter.Next() {
		name := iter.Label()
		rows, err := decodeRows(name, iter.Value())
		if err != nil {
			return nil, err
		}
		seed.Collections[name] = rows
	}
	return seed, nil
}

func decodeRows(collection string, list cue.Value) ([]row.Row, error) {
	iter, err := list.List()
	if err != nil {
		return nil, &LoadError{
			Code:    ErrCodeBadShape,
			Message: fmt.Sprintf("collection %s is not a list: %v", collection, err),
			Pos:     list.Pos(),
		}
	}

	rows := []row.Row{}
	for iter.Next() {
		elem := iter.Value()
		var raw map[string]any
		if err := elem.Decode(&raw); err != nil {
			return nil, &LoadError{
				Code:    ErrCodeBadRow,
				Message: fmt.Sprintf("collection %s: decoding row: %v", collection, err),
				Pos:     elem.Pos(),
			}
		}
		r, err := row.RowFromAny(raw)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeBadRow,
				Message: fmt.Sprintf("collection %s: %v", collection, err),
				Pos:     elem.Pos(),
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
