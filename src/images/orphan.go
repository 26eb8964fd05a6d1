package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.blockward.net/bw/blockward/src/logging"
	"git.blockward.net/bw/blockward/src/oops"
)

// One file in a content root, as seen by the scanner.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Inventory lists the regular files directly under a content root.
// Subdirectories are never created by the upload path, so anything else in
// there is not ours to touch.
func Inventory(root string) ([]FileInfo, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.New(err, "failed to list content root %s", root)
	}

	var files []FileInfo
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// Orphans returns the files present on disk but absent from the referenced
// set, preserving inventory order.
func Orphans(inventory []FileInfo, referenced map[string]struct{}) []FileInfo {
	var orphans []FileInfo
	for _, file := range inventory {
		if _, ok := referenced[file.Name]; !ok {
			orphans = append(orphans, file)
		}
	}
	return orphans
}

type PurgeReport struct {
	Removed        []string
	BytesReclaimed int64
	Errors         []string
}

/*
Purge deletes the orphan candidates from a content root. Immediately before
each delete it calls stillReferenced with the filename, so an upload that
completed after the scan gets one last chance to save its files; the re-check
shrinks the race window but is not a lock, and that gap is accepted. Errors on
individual files are collected, never fatal, and a canceled context simply
stops the batch early. A partial purge is a valid outcome, and re-running
purge on an unchanged root removes nothing.
*/
func Purge(ctx context.Context, root string, orphans []FileInfo, stillReferenced func(name string) (bool, error)) PurgeReport {
	log := logging.ExtractLogger(ctx)
	var report PurgeReport

	for _, orphan := range orphans {
		select {
		case <-ctx.Done():
			report.Errors = append(report.Errors, "purge canceled before completion")
			return report
		default:
		}

		if secErr := CheckFilename(orphan.Name); secErr != nil {
			// Inventory names come from ReadDir, so this means someone
			// planted a hostile name in the root itself.
			log.Warn().Str("filename", orphan.Name).Msg("skipping unsafe filename during purge")
			report.Errors = append(report.Errors, secErr.Error())
			continue
		}

		if stillReferenced != nil {
			referenced, err := stillReferenced(orphan.Name)
			if err != nil {
				// If we cannot re-check, deleting would be a gamble. Keep it.
				report.Errors = append(report.Errors, fmt.Sprintf("%s: re-check failed: %v", orphan.Name, err))
				continue
			}
			if referenced {
				continue
			}
		}

		err := os.Remove(filepath.Join(root, orphan.Name))
		if os.IsNotExist(err) {
			continue // someone else got there first; that is fine
		}
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", orphan.Name, err))
			continue
		}
		report.Removed = append(report.Removed, orphan.Name)
		report.BytesReclaimed += orphan.Size
	}

	return report
}
