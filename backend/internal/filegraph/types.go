package filegraph

// FileRecord is one distinct file known to the vector index: its natural
// key (filename), externally produced embedding, and document length.
type FileRecord struct {
	Filename       string
	Embedding      []float32
	DocumentLength int
}

// Neighbor is one nearest-neighbor hit for a source file.
type Neighbor struct {
	Filename string
	Score    float32
}

// NeighborResult holds a file's neighbors ordered by descending
// similarity, with the file's own embedding already excluded.
type NeighborResult struct {
	SourceFilename string
	Neighbors      []Neighbor
}

// Node is one file in the similarity graph. EditCount is a placeholder
// metric until a real edit-history signal is wired in.
type Node struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EditCount    int    `json:"editCount"`
	LengthOfFile int    `json:"lengthOfFile"`
}

// Edge is one retained (source, neighbor) similarity relationship.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the assembled similarity graph returned to the frontend.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
