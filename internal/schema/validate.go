package schema

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Validation errors for schema invariants.
var (
	// ErrBlockGap indicates stat block IDs are not contiguous from 1.
	ErrBlockGap = errors.New("stat block IDs are not contiguous from 1")

	// ErrEmptyBlock indicates a stat block without any bits.
	ErrEmptyBlock = errors.New("stat block has no bits")

	// ErrBitRange indicates a bit index outside 0..31.
	ErrBitRange = errors.New("bit index out of range")

	// ErrDuplicateAPIName indicates two bits share an API name.
	ErrDuplicateAPIName = errors.New("duplicate achievement API name")

	// ErrBlockType indicates a stat block whose type is not the bitfield marker.
	ErrBlockType = errors.New("stat block is not a bitfield")
)

// ValidationError ties an invariant violation to its location.
type ValidationError struct {
	Location string
	Err      error
}

func (e *ValidationError) Error() string {
	return e.Location + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the invariants a schema built by Build always satisfies.
// It returns nil when the schema is valid.
func Validate(g *GameSchema) []error {
	var errs []error
	add := func(loc string, err error) {
		errs = append(errs, &ValidationError{Location: loc, Err: err})
	}

	for i := 1; i <= len(g.Stats); i++ {
		if _, ok := g.Stats[strconv.Itoa(i)]; !ok {
			add(fmt.Sprintf("app %s", g.AppID), ErrBlockGap)
			break
		}
	}

	seen := make(map[string]string)
	for _, id := range sortedNumeric(g.Stats) {
		block := g.Stats[id]
		loc := fmt.Sprintf("app %s stat %s", g.AppID, id)
		if block.Type != BitfieldType {
			add(loc, ErrBlockType)
		}
		if len(block.Bits) == 0 {
			add(loc, ErrEmptyBlock)
		}
		for _, key := range sortedNumeric(block.Bits) {
			bit := block.Bits[key]
			bitLoc := loc + " bit " + key
			n, err := strconv.Atoi(key)
			if err != nil || n < 0 || n >= BitsPerBlock || bit.BitIndex != n {
				add(bitLoc, ErrBitRange)
			}
			if bit.APIName == "" {
				continue
			}
			if prev, dup := seen[bit.APIName]; dup {
				add(bitLoc, errors.Wrapf(ErrDuplicateAPIName, "%q also at %s", bit.APIName, prev))
				continue
			}
			seen[bit.APIName] = bitLoc
		}
	}
	return errs
}
