package model

// Claim represents a single factual assertion extracted from input text.
// A claim has no identity beyond its text; the same sentence extracted
// twice is the same claim.
type Claim struct {
	Text string `json:"text"`
}

// ClaimList is the structured-output shape the extraction model must
// produce: a flat list of claim sentences.
type ClaimList struct {
	Facts []string `json:"facts"`
}
