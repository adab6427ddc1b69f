package rows

import "errors"

var (
	// ErrParse means the input could not be read or tokenised as CSV.
	ErrParse = errors.New("could not read CSV")

	// ErrNoRows means the input was valid but produced no non-empty rows.
	ErrNoRows = errors.New("no usable rows")

	// ErrUnsupportedFile means the path does not have a .csv extension.
	ErrUnsupportedFile = errors.New("not a .csv file")
)
