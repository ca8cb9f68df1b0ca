package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/samber/oops"

	"github.com/vswatch/vswatch/pkg/types"
)

const snapshotFile = "lineage.json"

// Client persists the resolved lineage between runs. The file is read once
// at the start of a run and replaced wholesale at the end.
type Client struct {
	filePath string
}

// NewClient is the factory method for the snapshot Client
func NewClient(cacheDir string) Client {
	return Client{
		filePath: Path(cacheDir),
	}
}

func Path(cacheDir string) string {
	return filepath.Join(cacheDir, snapshotFile)
}

// Load returns the lineage persisted by the previous run. A missing file is
// a first run, not an error.
func (c Client) Load() (types.Lineage, error) {
	eb := oops.With("file_path", c.filePath)

	f, err := os.Open(c.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eb.Wrapf(err, "file open error")
	}
	defer f.Close()

	var lineage types.Lineage
	if err = json.NewDecoder(f).Decode(&lineage); err != nil {
		return nil, eb.Wrapf(err, "json decode error")
	}
	return lineage, nil
}

// Save persists the lineage with its head removed. The dropped head is the
// entry the next run re-resolves, which keeps the snapshot from regrowing.
func (c Client) Save(lineage types.Lineage) error {
	eb := oops.With("file_path", c.filePath)

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0o744); err != nil {
		return eb.Wrapf(err, "mkdir error")
	}

	f, err := os.Create(c.filePath)
	if err != nil {
		return eb.Wrapf(err, "file create error")
	}
	defer f.Close()

	if err = json.NewEncoder(f).Encode(lineage.Trim()); err != nil {
		return eb.Wrapf(err, "json encode error")
	}
	return nil
}
