package filegraph

import (
	"math/rand"
	"strconv"
	"time"
)

const (
	// maxOutDegree caps edges originating from any one node.
	maxOutDegree = 3

	// editCount placeholder range, until commit history is wired in.
	minEditCount = 2
	maxEditCount = 13

	// lengthOfFile fallback range for nodes that only ever appeared as
	// someone's neighbor and were never fetched themselves.
	minFallbackLength = 20
	maxFallbackLength = 250
)

// Assembler folds per-file neighbor results into one deduplicated,
// degree-bounded graph. Node and edge ids are assigned in observation
// order, so the graph is reproducible for a fixed input ordering; only
// the placeholder metrics are randomized.
type Assembler struct {
	rng *rand.Rand
}

// NewAssembler creates an assembler. Pass a seeded rng to pin the
// placeholder metrics in tests; nil gets a time-seeded source.
func NewAssembler(rng *rand.Rand) *Assembler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Assembler{rng: rng}
}

// Assemble builds the graph. Source files are walked in fetch order and
// each distinct filename gets the next sequential node id. Neighbor
// results are then walked in the same order; each retained (source,
// neighbor) pair becomes an edge until the source hits maxOutDegree.
// Neighbors never seen before get a fallback node. Self-edges and
// duplicate (source, target) pairs are dropped. Assemble never fails:
// sparse or inconsistent input degrades to a smaller graph.
func (a *Assembler) Assemble(sourceFiles []FileRecord, neighborResults []NeighborResult) Graph {
	idByName := make(map[string]string, len(sourceFiles))
	nodes := make([]Node, 0, len(sourceFiles))
	edges := make([]Edge, 0, len(sourceFiles)*maxOutDegree)

	nextNodeID := 0
	assignID := func(name string) string {
		nextNodeID++
		id := strconv.Itoa(nextNodeID)
		idByName[name] = id
		return id
	}

	for _, rec := range sourceFiles {
		if _, ok := idByName[rec.Filename]; ok {
			continue
		}
		nodes = append(nodes, Node{
			ID:           assignID(rec.Filename),
			Name:         rec.Filename,
			EditCount:    a.randBetween(minEditCount, maxEditCount),
			LengthOfFile: rec.DocumentLength,
		})
	}

	outDegree := make(map[string]int)
	seenEdges := make(map[string]bool)
	edgeSeq := 0

	for _, result := range neighborResults {
		sourceID, ok := idByName[result.SourceFilename]
		if !ok {
			// Result for a file that was never assigned a node;
			// skip rather than invent a dangling source.
			continue
		}

		for _, nb := range result.Neighbors {
			if outDegree[sourceID] >= maxOutDegree {
				break
			}
			if nb.Filename == "" || nb.Filename == result.SourceFilename {
				continue
			}

			targetID, ok := idByName[nb.Filename]
			if !ok {
				// Neighbor search surfaced a file outside the
				// enumerated set; give it a fallback node.
				targetID = assignID(nb.Filename)
				nodes = append(nodes, Node{
					ID:           targetID,
					Name:         nb.Filename,
					EditCount:    a.randBetween(minEditCount, maxEditCount),
					LengthOfFile: a.randBetween(minFallbackLength, maxFallbackLength),
				})
			}

			if sourceID == targetID {
				continue
			}
			edgeKey := sourceID + "->" + targetID
			if seenEdges[edgeKey] {
				continue
			}
			seenEdges[edgeKey] = true

			edgeSeq++
			edges = append(edges, Edge{
				ID:     "e" + strconv.Itoa(edgeSeq),
				Source: sourceID,
				Target: targetID,
			})
			outDegree[sourceID]++
		}
	}

	return Graph{Nodes: nodes, Edges: edges}
}

func (a *Assembler) randBetween(min, max int) int {
	return min + a.rng.Intn(max-min+1)
}
