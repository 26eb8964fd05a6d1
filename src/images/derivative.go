package images

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// The bounding box a derivative must fit within. Aspect ratio is always
// preserved and images are never upscaled.
type Bounds struct {
	MaxWidth  int
	MaxHeight int
}

var (
	PostBounds     = Bounds{300, 300}
	LocationBounds = Bounds{300, 300}
	ProfileBounds  = Bounds{200, 200}
)

// fit returns the target dimensions for an image scaled down to fit within
// the bounds. Images already within the bounds keep their size.
func (b Bounds) fit(w, h int) (int, int) {
	if w <= b.MaxWidth && h <= b.MaxHeight {
		return w, h
	}
	scaleW := float64(b.MaxWidth) / float64(w)
	scaleH := float64(b.MaxHeight) / float64(h)
	scale := scaleW
	if scaleH < scaleW {
		scale = scaleH
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	return dw, dh
}

/*
GenerateDerivative reads the image at sourcePath, scales it to fit within the
bounds, and writes the result to destPath, overwriting whatever is there. The
source must already have passed validation; a decode failure here (corrupt
file, disk trouble) is still reported, never swallowed.

There is no webp encoder in x/image, so derivatives of webp uploads are
written as PNG data. Upload names those files with a .png extension so that
serving by extension stays truthful.
*/
func GenerateDerivative(sourcePath, destPath string, bounds Bounds) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return &StorageError{Failure: storageFailureFor(err), Op: "open", Path: sourcePath, Err: err}
	}

	img, format, err := image.Decode(src)
	// Close before writing; source and dest may be the same file.
	src.Close()
	if err != nil {
		return &StorageError{Failure: StorageIOFailure, Op: "decode", Path: sourcePath, Err: err}
	}

	srcBounds := img.Bounds()
	dw, dh := bounds.fit(srcBounds.Dx(), srcBounds.Dy())

	scaled := img
	if dw != srcBounds.Dx() || dh != srcBounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, srcBounds, draw.Src, nil)
		scaled = dst
	}

	out, err := os.Create(destPath)
	if err != nil {
		return &StorageError{Failure: storageFailureFor(err), Op: "create", Path: destPath, Err: err}
	}
	defer out.Close()

	if err := encodeAs(out, scaled, format); err != nil {
		return &StorageError{Failure: StorageIOFailure, Op: "encode", Path: destPath, Err: err}
	}
	return nil
}

// ProcessCustomDerivative resizes a separately-uploaded derivative in place so
// that it obeys the same bounding box as an auto-generated one.
func ProcessCustomDerivative(path string, bounds Bounds) error {
	return GenerateDerivative(path, path, bounds)
}

func encodeAs(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	case "gif":
		return gif.Encode(w, img, nil)
	default: // png, webp
		return png.Encode(w, img)
	}
}

func storageFailureFor(err error) StorageFailure {
	if os.IsPermission(err) {
		return StoragePermission
	}
	return StorageIOFailure
}
