package adapter

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/logger"
)

// Record is a RawRecord tagged with the adapter that produced it.
type Record struct {
	RawRecord
	Adapter  string
	Provider models.Provider
}

// LoadResult aggregates everything one input root produced. Parse failures
// are carried as values so the pipeline can count them without aborting.
type LoadResult struct {
	Records        []Record
	ParseErrors    []error
	FilesParsed    int
	FilesSkipped   int
	RecordsSkipped int
}

func (r *LoadResult) merge(other *LoadResult) {
	r.Records = append(r.Records, other.Records...)
	r.ParseErrors = append(r.ParseErrors, other.ParseErrors...)
	r.FilesParsed += other.FilesParsed
	r.FilesSkipped += other.FilesSkipped
	r.RecordsSkipped += other.RecordsSkipped
}

// Load walks one input root laid out as <root>/<account_id>/<files> and
// parses every file the adapter recognizes. Account directories are
// processed concurrently. Files the adapter does not recognize are
// ignored; a missing root is an error for the caller to classify.
func Load(ctx context.Context, a Adapter, root string, log logger.Logger) (*LoadResult, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}

	var accounts []string
	for _, entry := range entries {
		if entry.IsDir() {
			accounts = append(accounts, entry.Name())
			continue
		}
		// Stray files directly under the root belong to no account.
		if a.Match(entry.Name()) {
			sub := loadFile(a, filepath.Join(root, entry.Name()), "", log)
			result.merge(sub)
		}
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, account := range accounts {
		wg.Add(1)
		go func(account string) {
			defer wg.Done()
			sub := loadAccountDir(ctx, a, filepath.Join(root, account), account, log)
			mu.Lock()
			result.merge(sub)
			mu.Unlock()
		}(account)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// loadAccountDir recursively parses one account's directory.
func loadAccountDir(ctx context.Context, a Adapter, dir, account string, log logger.Logger) *LoadResult {
	result := &LoadResult{}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !a.Match(d.Name()) {
			return nil
		}
		result.merge(loadFile(a, path, account, log))
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
		log.Warn("Failed to walk account directory",
			"adapter", a.Name(), "dir", dir, "error", walkErr)
		result.ParseErrors = append(result.ParseErrors, walkErr)
	}

	return result
}

func loadFile(a Adapter, path, account string, log logger.Logger) *LoadResult {
	result := &LoadResult{}

	records, skipped, err := a.ParseFile(path)
	result.RecordsSkipped += skipped
	if err != nil {
		log.Warn("Skipping unreadable scanner output file",
			"adapter", a.Name(), "file", path, "error", err)
		result.FilesSkipped++
		result.ParseErrors = append(result.ParseErrors, err)
		return result
	}

	result.FilesParsed++
	for _, rec := range records {
		if rec.AccountID == "" {
			rec.AccountID = account
		}
		result.Records = append(result.Records, Record{
			RawRecord: rec,
			Adapter:   a.Name(),
			Provider:  a.Provider(),
		})
	}

	log.Debug("Parsed scanner output file",
		"adapter", a.Name(), "file", path, "records", len(records), "skipped", skipped)
	return result
}
