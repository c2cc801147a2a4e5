package models

// Company is an entry of the company directory.
type Company struct {
	ID         int64  `json:"id"`
	NamesOne   string `json:"namesOne"`
	NamesTwo   string `json:"namesTwo"`
	NamesThree string `json:"namesThree"`
	Branches   string `json:"branches"`
}
