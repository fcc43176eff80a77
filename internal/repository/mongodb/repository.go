package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hydrosense/irriga/internal/domain/models"
)

// ErrNoReports is returned when the store holds no allocation report yet.
var ErrNoReports = errors.New("no allocation reports stored")

// Repository defines the interface for allocation report storage.
type Repository interface {
	SaveAllocationReport(ctx context.Context, report models.AllocationReport) error
	LatestAllocationReport(ctx context.Context) (models.AllocationReport, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "allocation_reports",
	}, nil
}

// SaveAllocationReport persists one completed cycle report.
func (r *MongoDBRepository) SaveAllocationReport(ctx context.Context, report models.AllocationReport) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err := collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert allocation report: %w", err)
	}
	return nil
}

// LatestAllocationReport returns the most recently generated report.
func (r *MongoDBRepository) LatestAllocationReport(ctx context.Context) (models.AllocationReport, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})
	var report models.AllocationReport
	err := collection.FindOne(ctx, bson.D{}, opts).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.AllocationReport{}, ErrNoReports
		}
		return models.AllocationReport{}, fmt.Errorf("failed to load latest allocation report: %w", err)
	}
	return report, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
