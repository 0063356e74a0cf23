// Package mongodb provides the MongoDB-backed implementation of the
// storage.Storage interface — the primary backend, since student
// records are plain documents with no relational structure.
//
// Records live in a single "students" collection. A unique index on
// the email field makes the store itself enforce the email-uniqueness
// invariant; the duplicate-key error it raises on collision is mapped
// to storage.ErrDuplicateEmail so handlers never see driver errors.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dhananjay-m/student-management-api/internal/config"
	"github.com/dhananjay-m/student-management-api/internal/storage"
	"github.com/dhananjay-m/student-management-api/internal/types"
)

// connectTimeout bounds the initial connection attempt so a bad URI
// fails at startup rather than hanging forever.
const connectTimeout = 10 * time.Second

// MongoDB is the concrete implementation of storage.Storage.
// A mongo.Client maintains its own connection pool and is safe for
// concurrent use by multiple goroutines.
type MongoDB struct {
	client   *mongo.Client
	students *mongo.Collection
}

// studentDoc is the BSON shape of a record in the collection. It is
// private to this package: the rest of the application only ever sees
// types.Student with a plain string id.
type studentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Course    string             `bson:"course"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d studentDoc) toStudent() types.Student {
	return types.Student{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Course:    d.Course,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// New connects to the MongoDB deployment named by cfg.Storage.URI,
// pings it to verify the connection, and ensures the unique email
// index exists. The index creation is idempotent — safe on every
// startup.
func New(ctx context.Context, cfg *config.Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Storage.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb.New: connect: %w", err)
	}

	// Connect does not guarantee reachability; Ping does.
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb.New: ping: %w", err)
	}

	students := client.Database(cfg.Storage.Database).Collection("students")

	_, err = students.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("mongodb.New: create email index: %w", err)
	}

	return &MongoDB{client: client, students: students}, nil
}

// Close releases the client's connection pool. Called on shutdown.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ping reports whether the deployment is reachable.
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoDB) CreateStudent(ctx context.Context, name, email, course string) (types.Student, error) {
	now := time.Now().UTC()
	doc := studentDoc{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Course:    course,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := m.students.InsertOne(ctx, doc); err != nil {
		// The unique index rejects a second record with the same
		// email; surface that as the typed duplicate error.
		if mongo.IsDuplicateKeyError(err) {
			return types.Student{}, storage.ErrDuplicateEmail
		}
		return types.Student{}, wrapUnavailable("CreateStudent: insert", err)
	}

	return doc.toStudent(), nil
}

func (m *MongoDB) GetStudents(ctx context.Context) ([]types.Student, error) {
	// Newest first, matching the list contract.
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.students.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrapUnavailable("GetStudents: find", err)
	}
	defer cursor.Close(ctx)

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for cursor.Next(ctx) {
		var doc studentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("GetStudents: decode: %w", err)
		}
		students = append(students, doc.toStudent())
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapUnavailable("GetStudents: cursor", err)
	}

	return students, nil
}

func (m *MongoDB) GetStudentByID(ctx context.Context, id string) (types.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never match a stored record.
		return types.Student{}, storage.ErrNotFound
	}

	var doc studentDoc
	err = m.students.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, wrapUnavailable("GetStudentByID: find", err)
	}

	return doc.toStudent(), nil
}

func (m *MongoDB) UpdateStudentByID(ctx context.Context, id string, upd types.StudentUpdate) (types.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.Student{}, storage.ErrNotFound
	}

	// Build $set from only the supplied fields; UpdatedAt always
	// refreshes on a successful update.
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Course != nil {
		set["course"] = *upd.Course
	}

	// ReturnDocument(After) makes FindOneAndUpdate hand back the
	// post-update document in a single round trip.
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc studentDoc
	err = m.students.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Student{}, storage.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return types.Student{}, storage.ErrDuplicateEmail
		}
		return types.Student{}, wrapUnavailable("UpdateStudentByID: find and update", err)
	}

	return doc.toStudent(), nil
}

func (m *MongoDB) DeleteStudentByID(ctx context.Context, id string) (types.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.Student{}, storage.ErrNotFound
	}

	var doc studentDoc
	err = m.students.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, wrapUnavailable("DeleteStudentByID: find and delete", err)
	}

	return doc.toStudent(), nil
}

// wrapUnavailable folds driver-level failures (server selection
// timeouts, broken connections, cancelled contexts) into the
// connectivity branch of the error taxonomy while keeping the
// underlying cause in the chain for server-side logs.
func wrapUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
}
