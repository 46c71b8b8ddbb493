package model

// Classification is the three-tier veracity label derived from a
// confidence score.
type Classification string

const (
	ClassificationGreen  Classification = "green"  // Well supported, confidence >= 70
	ClassificationYellow Classification = "yellow" // Mixed or partial support, 40-69
	ClassificationRed    Classification = "red"    // Contradicted or unverifiable, < 40
)

// Confidence thresholds. The 40 boundary is yellow-inclusive and the 70
// boundary is green-inclusive.
const (
	ThresholdYellow = 40
	ThresholdGreen  = 70
)

// ClassifyConfidence maps a 0-100 confidence score to its tier.
func ClassifyConfidence(confidence int) Classification {
	switch {
	case confidence < ThresholdYellow:
		return ClassificationRed
	case confidence < ThresholdGreen:
		return ClassificationYellow
	default:
		return ClassificationGreen
	}
}

// Source is a web page the verification step consulted.
type Source struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// SourceSet partitions consulted sources by how they relate to the claim.
type SourceSet struct {
	Supporting    []Source `json:"supporting"`
	Contradicting []Source `json:"contradicting"`
	Nuanced       []Source `json:"nuanced"`
}

// EmptySourceSet returns a SourceSet whose lists marshal as [] rather
// than null.
func EmptySourceSet() SourceSet {
	return SourceSet{
		Supporting:    []Source{},
		Contradicting: []Source{},
		Nuanced:       []Source{},
	}
}

// VerificationRecord is the per-claim output of the fact-checking
// pipeline. Records are created once and never mutated; association with
// the input claim is by the Statement field, not by position.
type VerificationRecord struct {
	Statement      string         `json:"statement"`
	Explanation    string         `json:"explanation"`
	Confidence     int            `json:"confidence"`
	Classification Classification `json:"classification"`
	Sources        SourceSet      `json:"sources"`
}

// DegradedRecord builds the record used when verification of a single
// claim fails. The batch continues; only this claim is flagged.
func DegradedRecord(statement string, cause error) VerificationRecord {
	return VerificationRecord{
		Statement:      statement,
		Explanation:    "Error during fact checking: " + cause.Error(),
		Confidence:     0,
		Classification: ClassificationRed,
		Sources:        EmptySourceSet(),
	}
}
