package retrieval

// SourceType identifies which kind of clinical record a candidate came from.
type SourceType string

const (
	// SourceNote is a de-identified clinical note.
	SourceNote SourceType = "note"
	// SourceLab is a discrete observation (lab result or vital sign).
	SourceLab SourceType = "lab"
	// SourceMedication is a medication record.
	SourceMedication SourceType = "med"
)

// typePrecedence breaks score ties deterministically: notes before labs before medications.
var typePrecedence = map[SourceType]int{
	SourceNote:       0,
	SourceLab:        1,
	SourceMedication: 2,
}

// Candidate is a scored evidentiary unit produced by one source-type retriever
// before merging. Candidates are ephemeral and never persisted.
type Candidate struct {
	SourceType SourceType
	SourceID   string
	Label      string
	Snippet    string
	Score      float64
	Metadata   map[string]any
}

// Result is the final response payload shape. Downstream answer generation
// parses it by field name, so the JSON tags are a compatibility contract.
type Result struct {
	SourceType SourceType     `json:"source_type"`
	SourceID   string         `json:"source_id"`
	Label      string         `json:"label"`
	Snippet    string         `json:"snippet"`
	Score      float64        `json:"score"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

const (
	// DefaultK is the default number of results returned by a retrieval call.
	DefaultK = 5
	// DefaultCandidateMultiplier determines how many stage-1 candidates are
	// submitted to the reranker (k * multiplier).
	DefaultCandidateMultiplier = 3

	// rerankSnippetLimit caps the snippet length sent to the reranker. It is
	// deliberately larger than the output cap because reranking benefits from
	// longer context.
	rerankSnippetLimit = 1500
	// outputSnippetLimit caps the snippet length in the final results.
	outputSnippetLimit = 300
)

// Retrieval method values reported to callers.
const (
	MethodVector  = "vector"
	MethodKeyword = "keyword"
)
