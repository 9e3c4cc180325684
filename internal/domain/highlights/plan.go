package highlights

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/forPelevin/hlgrab/internal/types"
)

const DefaultClipLength = 15 * time.Second

// DefaultRatios sample the intro, the middle and the climax of a video.
var DefaultRatios = []float64{0.2, 0.5, 0.8}

// Policy decides where clips start and how long they are.
type Policy struct {
	Ratios     []float64
	ClipLength time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Ratios:     append([]float64(nil), DefaultRatios...),
		ClipLength: DefaultClipLength,
	}
}

func (p Policy) Validate() error {
	if len(p.Ratios) == 0 {
		return errors.New("at least one ratio is required")
	}
	for i, r := range p.Ratios {
		if math.IsNaN(r) || r < 0 || r >= 1 {
			return fmt.Errorf("ratio #%d (%v) must be in [0, 1)", i+1, r)
		}
	}
	if p.ClipLength <= 0 {
		return errors.New("clip length must be > 0")
	}
	return nil
}

// Plan computes one clip per policy ratio, in ratio order.
//
// Every clip requests the full policy length even when offset+length runs
// past the end of the source; the trim primitive stops at end of input, so
// the trailing clip of a short source simply comes out shorter.
func Plan(durationSec float64, p Policy) ([]types.ClipSpec, error) {
	if !ValidDuration(durationSec) {
		return nil, fmt.Errorf("invalid duration %v", durationSec)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := make([]types.ClipSpec, 0, len(p.Ratios))
	for i, r := range p.Ratios {
		out = append(out, types.ClipSpec{
			Index:    i + 1,
			Ratio:    r,
			Offset:   seconds(durationSec * r),
			Duration: p.ClipLength,
		})
	}
	return out, nil
}

// ValidDuration reports whether a probed duration can be planned against.
func ValidDuration(sec float64) bool {
	return sec > 0 && !math.IsNaN(sec) && !math.IsInf(sec, 0)
}

// Overrun is how far a clip would run past the end of the source.
func Overrun(spec types.ClipSpec, durationSec float64) time.Duration {
	over := spec.Offset + spec.Duration - seconds(durationSec)
	if over < 0 {
		return 0
	}
	return over
}

func seconds(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
