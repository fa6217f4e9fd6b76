package models

// RetrievalUnit is the atomic indexed item: a chunk of document text plus
// the metadata needed to cite it without re-reading the source file.
type RetrievalUnit struct {
	UnitID    string `json:"unit_id"`
	Text      string `json:"text"`
	FileName  string `json:"file_name"`
	PageLabel string `json:"page_label,omitempty"`
	Order     int    `json:"order"`
}

// ScoredUnit pairs a retrieval unit with its similarity score.
type ScoredUnit struct {
	Unit  RetrievalUnit `json:"unit"`
	Score float32       `json:"score"`
}

// Citation identifies a source for an answer. Text holds a short preview
// of the cited unit, never the full content.
type Citation struct {
	File string `json:"file"`
	Page string `json:"page,omitempty"`
	Text string `json:"text"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// QueryResult is the answer returned for a query, with sources in
// retrieval rank order.
type QueryResult struct {
	Response string     `json:"response"`
	Sources  []Citation `json:"sources"`
}

// UploadResponse is returned after a successful ingestion.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
}
