// Package detector finds faces in still images with the pigo cascade
// classifier. Detected faces become smoke sources in the scene.
package detector

import (
	"errors"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/esimov/ascii-smoke/config"
	"github.com/esimov/ascii-smoke/scene"
)

// ErrCascade is returned when the cascade file cannot be unpacked.
var ErrCascade = errors.New("detector: invalid cascade")

// minCascadeLen is the size of the cascade header: version, tree depth and tree count.
const minCascadeLen = 12

// Params tunes the cascade run.
type Params struct {
	MinSize      int
	MaxSize      int
	ShiftFactor  float64
	ScaleFactor  float64
	IoUThreshold float64 // Overlap above which detections are merged
	MinQuality   float64 // Detections scoring below are dropped
}

// ParamsFromConfig copies the detector section of the configuration.
func ParamsFromConfig(c config.DetectorConfig) Params {
	return Params{
		MinSize:      c.MinSize,
		MaxSize:      c.MaxSize,
		ShiftFactor:  c.ShiftFactor,
		ScaleFactor:  c.ScaleFactor,
		IoUThreshold: c.IoUThreshold,
		MinQuality:   c.MinQuality,
	}
}

// Face is a detected face in pixel coordinates.
type Face struct {
	Row, Col int
	Scale    int
	Quality  float64
}

// Normalized returns the face center relative to an image of w by h pixels.
func (f Face) Normalized(w, h int) (x, y float64) {
	return float64(f.Col) / float64(w), float64(f.Row) / float64(h)
}

// Emitter turns the face into a smoke source.
func (f Face) Emitter(w, h int, rate float64) *scene.Emitter {
	x, y := f.Normalized(w, h)
	return scene.NewEmitter(x, y, rate)
}

// Detector wraps an unpacked face classifier.
type Detector struct {
	classifier *pigo.Pigo
	params     Params
}

// New unpacks a facefinder cascade.
func New(cascade []byte, p Params) (d *Detector, err error) {
	if len(cascade) < minCascadeLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrCascade, len(cascade))
	}
	// Unpack indexes the buffer without bounds checks on truncated input.
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("%w: %v", ErrCascade, r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCascade, err)
	}
	return &Detector{classifier: classifier, params: p}, nil
}

// Load reads the cascade file at path and unpacks it.
func Load(path string, p Params) (*Detector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cascade file: %w", err)
	}
	return New(cascade, p)
}

// Detect runs the clustered cascade over img and returns the faces that
// pass the quality threshold.
func (d *Detector) Detect(img *image.NRGBA) []Face {
	bounds := img.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()

	cParams := pigo.CascadeParams{
		MinSize:     d.params.MinSize,
		MaxSize:     d.params.MaxSize,
		ShiftFactor: d.params.ShiftFactor,
		ScaleFactor: d.params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	// Each detection is a row, column, scale and score quadruplet.
	dets := d.classifier.RunCascade(cParams, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.params.IoUThreshold)

	return filter(dets, d.params.MinQuality)
}

// DetectFile decodes the image at path and runs Detect on it. The image
// size is returned so faces can be normalized.
func (d *Detector) DetectFile(path string) (faces []Face, w, h int, err error) {
	img, err := pigo.GetImage(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("reading image: %w", err)
	}
	b := img.Bounds()
	return d.Detect(img), b.Dx(), b.Dy(), nil
}

func filter(dets []pigo.Detection, minQuality float64) []Face {
	faces := make([]Face, 0, len(dets))
	for _, det := range dets {
		if float64(det.Q) < minQuality {
			continue
		}
		faces = append(faces, Face{
			Row:     det.Row,
			Col:     det.Col,
			Scale:   det.Scale,
			Quality: float64(det.Q),
		})
	}
	return faces
}
