// Package table holds the immutable lookup tables shared by the interaction
// modules: interaction rates and cumulative distributions of secondary
// kinematics.
package table

import "errors"

var ErrInvalidTable = errors.New("table: invalid table")
