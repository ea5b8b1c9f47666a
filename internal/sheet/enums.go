package sheet

import "github.com/klytics/sheetkit/internal/design"

// Orientation is the printed page orientation.
type Orientation uint8

const (
	Portrait Orientation = iota
	Landscape
)

var orientations = design.NewEnum[Orientation]("Portrait", "Landscape")

func (o Orientation) Valid() bool { return orientations.Valid(o) }
func (o Orientation) String() string { return orientations.String(o) }
func (o Orientation) MarshalText() ([]byte, error) { return orientations.MarshalText(o) }
func (o *Orientation) UnmarshalText(b []byte) error { return orientations.UnmarshalText(o, b) }

// Paper is a printed paper size.
type Paper uint8

const (
	A4 Paper = iota
	A3
	A5
	Letter
	Legal
	Tabloid
	Executive
)

var papers = design.NewEnum[Paper]("A4", "A3", "A5", "Letter", "Legal", "Tabloid", "Executive")

// paperCodes are the SpreadsheetML paperSize values.
var paperCodes = [...]int{9, 8, 11, 1, 5, 3, 7}

func (p Paper) Valid() bool { return papers.Valid(p) }
func (p Paper) String() string { return papers.String(p) }
func (p Paper) MarshalText() ([]byte, error) { return papers.MarshalText(p) }
func (p *Paper) UnmarshalText(b []byte) error { return papers.UnmarshalText(p, b) }

// Code returns the paperSize value excelize writes.
func (p Paper) Code() int { return paperCodes[p] }

// Direction is the direction a merge extends from its start cell.
type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
)

var directions = design.NewEnum[Direction]("Horizontal", "Vertical")

func (d Direction) Valid() bool { return directions.Valid(d) }
func (d Direction) String() string { return directions.String(d) }
func (d Direction) MarshalText() ([]byte, error) { return directions.MarshalText(d) }
func (d *Direction) UnmarshalText(b []byte) error { return directions.UnmarshalText(d, b) }
