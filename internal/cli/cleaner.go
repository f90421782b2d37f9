package cli

import (
	"github.com/toyz/ngcc/internal/utils"
)

// Cleaner removes the files written by previous compile runs
type Cleaner struct {
	processor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{processor: utils.NewFileProcessor()}
}

// Clean deletes every *.ivy.* file below the given directories and returns
// the removed paths
func (c *Cleaner) Clean(directories []string) ([]string, error) {
	if err := utils.SliceNotEmpty[string]("paths")(directories); err != nil {
		return nil, err
	}
	return c.processor.CleanCompiled(directories)
}
