package store

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// WatchOrders streams the full order set: one snapshot immediately, then a
// re-derived snapshot after every change to the orders collection. The
// channel closes when ctx is cancelled or the change stream ends.
func (s *MongoStore) WatchOrders(ctx context.Context) (<-chan []models.Order, error) {
	streamOptions := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := s.orders().Watch(ctx, mongo.Pipeline{}, streamOptions)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.Order, 1)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		emit := func() {
			orders, err := s.AllOrders(ctx)
			if err != nil {
				log.Println("[STORE] [ERROR] watch snapshot failed:", err)
				return
			}
			select {
			case out <- orders:
			case <-ctx.Done():
			}
		}

		emit()
		for stream.Next(ctx) {
			emit()
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Println("[STORE] [ERROR] order change stream ended:", err)
		}
	}()
	return out, nil
}
