package providers

import (
	"fmt"
	"vtlink/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	return cv.validateShardLengths()
}

// validateShardLengths enforces level1+level2 <= hashLength. Zero values
// mean "use the default" and are substituted before checking.
func (cv *CnfValidator) validateShardLengths() error {
	l1, l2, h := cv.conf.Store.Level1Length, cv.conf.Store.Level2Length, cv.conf.Store.HashLength
	if l1 < 0 || l2 < 0 || h < 0 {
		return fmt.Errorf("store: shard lengths must not be negative")
	}
	if l1 == 0 {
		l1 = 2
	}
	if l2 == 0 {
		l2 = 2
	}
	if h == 0 {
		h = 8
	}
	if l1+l2 > h {
		return fmt.Errorf("store: level1Length+level2Length (%d) exceeds hashLength (%d)", l1+l2, h)
	}
	return nil
}
