package vector

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// scrollBatchSize caps a single Scroll page; enumeration paginates with
// the offset cursor until the index is exhausted.
const scrollBatchSize = 256

// QdrantIndex implements Index against a Qdrant collection.
type QdrantIndex struct {
	conn       *grpc.ClientConn
	points     pb.PointsClient
	collection string
}

// NewQdrant connects to a Qdrant instance over gRPC.
func NewQdrant(ctx context.Context, host string, port int, collection string) (*QdrantIndex, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &QdrantIndex{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		collection: collection,
	}, nil
}

func (q *QdrantIndex) ScrollAll(ctx context.Context) ([]Point, error) {
	var (
		out    []Point
		offset *pb.PointId
	)
	limit := uint32(scrollBatchSize)

	for {
		resp, err := q.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: q.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
			WithVectors:    &pb.WithVectorsSelector{SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true}},
		})
		if err != nil {
			return nil, err
		}

		for _, pt := range resp.Result {
			out = append(out, Point{
				Filename:       filenameFromPayload(pt.Payload),
				Embedding:      pt.Vectors.GetVector().GetData(),
				DocumentLength: documentLengthFromPayload(pt.Payload),
			})
		}

		if resp.NextPageOffset == nil || len(resp.Result) == 0 {
			return out, nil
		}
		offset = resp.NextPageOffset
	}
}

func (q *QdrantIndex) Search(ctx context.Context, vec []float32, limit uint64) ([]Point, error) {
	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         vec,
		Limit:          limit,
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, err
	}

	results := make([]Point, len(resp.Result))
	for i, pt := range resp.Result {
		results[i] = Point{
			Filename:       filenameFromPayload(pt.Payload),
			DocumentLength: documentLengthFromPayload(pt.Payload),
			Score:          pt.Score,
		}
	}
	return results, nil
}

func (q *QdrantIndex) Close() error {
	return q.conn.Close()
}

func filenameFromPayload(payload map[string]*pb.Value) string {
	if v, ok := payload["filename"]; ok {
		return v.GetStringValue()
	}
	return ""
}

// documentLengthFromPayload prefers an explicit document_length field and
// falls back to the length of the stored content chunk.
func documentLengthFromPayload(payload map[string]*pb.Value) int {
	if v, ok := payload["document_length"]; ok {
		return int(v.GetIntegerValue())
	}
	if v, ok := payload["content"]; ok {
		return len(v.GetStringValue())
	}
	return 0
}

var _ Index = (*QdrantIndex)(nil)
