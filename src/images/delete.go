package images

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.blockward.net/bw/blockward/src/logging"
)

// The outcome of a batch delete. Every input filename lands in exactly one
// bucket; nothing aborts the batch.
type DeleteReport struct {
	Deleted  []string
	NotFound []string
	Skipped  int // null/empty slots
	Errors   []string
}

var reDriveLetter = regexp.MustCompile(`^[A-Za-z]:`)

// CheckFilename rejects, purely lexically, any filename that could address
// something outside a flat content root. Runs before any filesystem access.
func CheckFilename(name string) *SecurityError {
	switch {
	case strings.Contains(name, ".."),
		strings.Contains(name, "~"),
		strings.Contains(name, "\x00"),
		strings.Contains(name, "//"),
		strings.Contains(name, `\\`):
		return &SecurityError{Violation: ViolationPathTraversal, Name: name}
	case strings.HasPrefix(name, "/"),
		strings.HasPrefix(name, `\`),
		reDriveLetter.MatchString(name):
		return &SecurityError{Violation: ViolationAbsolutePath, Name: name}
	}
	return nil
}

/*
DeleteAll removes the named files from a content root, typically because their
owner record was just deleted. It never fails as a whole: unsafe names are
rejected without touching the filesystem, missing files are fine (deleting is
idempotent), and OS-level errors on one file never stop the rest of the batch.
Everything is folded into the report.
*/
func DeleteAll(root string, filenames []string) DeleteReport {
	var report DeleteReport

	rootAbs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("could not resolve content root %s: %v", root, err))
		return report
	}

	for _, name := range filenames {
		if name == "" {
			report.Skipped++
			continue
		}

		if secErr := CheckFilename(name); secErr != nil {
			logging.Warn().Str("filename", name).Str("root", root).Msg("refusing to delete: unsafe filename")
			report.Errors = append(report.Errors, secErr.Error())
			continue
		}

		resolved, err := filepath.Abs(filepath.Join(rootAbs, name))
		if err != nil || !strings.HasPrefix(resolved, rootAbs+string(filepath.Separator)) {
			secErr := &SecurityError{Violation: ViolationOutsideRoot, Name: name}
			logging.Warn().Str("filename", name).Str("root", root).Msg("refusing to delete: resolved outside content root")
			report.Errors = append(report.Errors, secErr.Error())
			continue
		}

		// Lstat so a symlink never counts as a regular file.
		info, err := os.Lstat(resolved)
		if os.IsNotExist(err) {
			report.NotFound = append(report.NotFound, name)
			continue
		}
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if !info.Mode().IsRegular() {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: not a regular file", name))
			continue
		}

		if err := os.Remove(resolved); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		report.Deleted = append(report.Deleted, name)
	}

	return report
}
