package images

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.blockward.net/bw/blockward/src/logging"
)

// One file field as it came off the wire: declared name, declared content
// type, and the payload.
type FormFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// A NamingScheme decides what an upload's files are called on disk. The
// derivative name is always derived from the original's name by a fixed
// textual transform, so that either name can be reconstructed from the other.
type NamingScheme interface {
	OriginalName(sanitized string) string
	DerivativeName(originalName string) string
}

// ThumbPrefixNaming keeps the sanitized upload name and pairs it with a
// "thumb_"-prefixed derivative. Used for post and location images, where the
// owner record stores both names.
type ThumbPrefixNaming struct{}

func (ThumbPrefixNaming) OriginalName(sanitized string) string {
	return sanitized
}

func (ThumbPrefixNaming) DerivativeName(originalName string) string {
	return "thumb_" + originalName
}

// OwnerPairNaming names files after the owning record: {id}_profile.{ext} for
// the original and {id}_thumb.{ext} for the derivative. Used for profile
// pictures, where only the thumbnail name is stored in a slot.
type OwnerPairNaming struct {
	OwnerID int
}

func (n OwnerPairNaming) OriginalName(sanitized string) string {
	return fmt.Sprintf("%d_profile%s", n.OwnerID, path.Ext(sanitized))
}

func (n OwnerPairNaming) DerivativeName(originalName string) string {
	return pairReplace(originalName, "_profile.", "_thumb.")
}

type UploadInput struct {
	Root     string
	Original FormFile

	// A user-supplied derivative. When nil, one is generated from the
	// original instead.
	Derivative *FormFile

	Naming   NamingScheme
	Bounds   Bounds
	MaxBytes int64
}

type UploadResult struct {
	Original   string
	Derivative string
	Width      int
	Height     int
}

/*
Upload runs the whole ingest sequence for one image: validate the original,
write it to the content root, then resolve a derivative, either by validating
and resizing a user-supplied one or by generating one from the original. Any
failure after the original hits the disk deletes it again, so a failed upload
leaves nothing behind.

Upload never touches the database. On success the caller assigns the returned
filenames to the owner record's slots and persists the record itself; at that
instant both files exist under the root.
*/
func Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	verdict := Validate(bytes.NewReader(in.Original.Content), in.Original.Name, in.Original.ContentType, in.MaxBytes)
	if !verdict.Accepted {
		return UploadResult{}, verdict.Err()
	}

	if err := os.MkdirAll(in.Root, 0755); err != nil {
		return UploadResult{}, &StorageError{Failure: storageFailureFor(err), Op: "mkdir", Path: in.Root, Err: err}
	}

	originalName := in.Naming.OriginalName(SanitizeFilename(in.Original.Name))
	originalPath := filepath.Join(in.Root, originalName)
	if err := os.WriteFile(originalPath, in.Original.Content, 0644); err != nil {
		return UploadResult{}, &StorageError{Failure: storageFailureFor(err), Op: "write", Path: originalPath, Err: err}
	}

	derivativeName := in.Naming.DerivativeName(originalName)

	if in.Derivative != nil {
		dv := Validate(bytes.NewReader(in.Derivative.Content), in.Derivative.Name, in.Derivative.ContentType, in.MaxBytes)
		if !dv.Accepted {
			compensate(ctx, originalPath)
			return UploadResult{}, dv.Err()
		}
		derivativeName = derivativeNameFor(derivativeName, dv.Format)
		derivativePath := filepath.Join(in.Root, derivativeName)
		if err := os.WriteFile(derivativePath, in.Derivative.Content, 0644); err != nil {
			compensate(ctx, originalPath)
			return UploadResult{}, &StorageError{Failure: storageFailureFor(err), Op: "write", Path: derivativePath, Err: err}
		}
		if err := ProcessCustomDerivative(derivativePath, in.Bounds); err != nil {
			compensate(ctx, originalPath, derivativePath)
			return UploadResult{}, err
		}
	} else {
		derivativeName = derivativeNameFor(derivativeName, verdict.Format)
		derivativePath := filepath.Join(in.Root, derivativeName)
		if err := GenerateDerivative(originalPath, derivativePath, in.Bounds); err != nil {
			compensate(ctx, originalPath)
			return UploadResult{}, err
		}
	}

	return UploadResult{
		Original:   originalName,
		Derivative: derivativeName,
		Width:      verdict.Width,
		Height:     verdict.Height,
	}, nil
}

// derivativeNameFor adjusts a derivative's filename to the format it will
// actually be encoded in. Only webp changes anything: x/image has no webp
// encoder, so webp-sourced derivatives come out as PNG data and serving by
// extension would mislabel them under a .webp name.
func derivativeNameFor(name string, sourceFormat string) string {
	if sourceFormat != "webp" {
		return name
	}
	return strings.TrimSuffix(name, path.Ext(name)) + ".png"
}

// compensate removes files written earlier in a request whose later steps
// failed. Best effort: a failed cleanup is logged and the caller's primary
// error stands.
func compensate(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logging.ExtractLogger(ctx).Error().
				Err(err).
				Str("path", p).
				Msg("failed to clean up after a failed upload; the file is now orphaned until the next sweep")
		}
	}
}
