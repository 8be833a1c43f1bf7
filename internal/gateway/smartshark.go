// Package gateway provides access to the SmartSHARK document store,
// abstracting away the underlying MongoDB client.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/untangling-bench/lltc4j-export/internal/domain"
)

// Config holds the connection parameters for a SmartSHARK database snapshot.
type Config struct {
	Host       string
	Port       string
	User       string
	Password   string
	Database   string
	AuthSource string
	SSL        bool
}

// URI renders the config as a MongoDB connection string. Credentials are
// omitted entirely when no user is set, which is the common case for a local
// snapshot.
func (c Config) URI() string {
	var b strings.Builder
	b.WriteString("mongodb://")
	if c.User != "" {
		b.WriteString(url.QueryEscape(c.User))
		b.WriteString(":")
		b.WriteString(url.QueryEscape(c.Password))
		b.WriteString("@")
	}
	fmt.Fprintf(&b, "%s:%s", c.Host, c.Port)
	params := url.Values{}
	if c.AuthSource != "" {
		params.Set("authSource", c.AuthSource)
	}
	if c.SSL {
		params.Set("ssl", "true")
	}
	if len(params) > 0 {
		b.WriteString("/?")
		b.WriteString(params.Encode())
	}
	return b.String()
}

// Store defines the behavior of a gateway for reading the LLTC4J data from
// the document store. All methods are read-only.
type Store interface {
	Projects(ctx context.Context, names []string) ([]domain.Project, error)
	VCSSystem(ctx context.Context, projectID primitive.ObjectID) (*domain.VCSSystem, error)
	// LabelledBugfixCommits returns the commits of a VCS system carrying both
	// curated flags: validated bug fix and manually labelled lines.
	LabelledBugfixCommits(ctx context.Context, vcsSystemID primitive.ObjectID) ([]domain.Commit, error)
	// ValidatedBugfixCommits returns the commits of a VCS system flagged as
	// validated bug fixes, regardless of line labelling.
	ValidatedBugfixCommits(ctx context.Context, vcsSystemID primitive.ObjectID) ([]domain.Commit, error)
	CommitByHash(ctx context.Context, revisionHash string) (*domain.Commit, error)
	FileActions(ctx context.Context, commitID primitive.ObjectID) ([]domain.FileAction, error)
	FileByID(ctx context.Context, id primitive.ObjectID) (*domain.File, error)
	Hunks(ctx context.Context, fileActionID primitive.ObjectID) ([]domain.Hunk, error)
	Close(ctx context.Context) error
}

// SmartSHARK is the concrete implementation of the Store interface on top of
// a SmartSHARK MongoDB snapshot.
type SmartSHARK struct {
	client *mongo.Client
	db     *mongo.Database
	logger *log.Logger
}

// Connect opens a connection to the document store and verifies it with a
// ping. The driver defers connection establishment until the first operation,
// so the ping makes a misconfigured store fail fast instead of on the first
// query.
func Connect(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI()))
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to reach document store at %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	logger.Printf("Connected to database %s", cfg.Database)
	return &SmartSHARK{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Close releases the underlying client connections.
func (s *SmartSHARK) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *SmartSHARK) Projects(ctx context.Context, names []string) ([]domain.Project, error) {
	filter := bson.M{}
	if len(names) > 0 {
		filter["name"] = bson.M{"$in": names}
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.db.Collection("project").Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	var projects []domain.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

func (s *SmartSHARK) VCSSystem(ctx context.Context, projectID primitive.ObjectID) (*domain.VCSSystem, error) {
	var vcs domain.VCSSystem
	err := s.db.Collection("vcs_system").FindOne(ctx, bson.M{"project_id": projectID}).Decode(&vcs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up VCS system for project %s: %w", projectID.Hex(), err)
	}
	return &vcs, nil
}

func (s *SmartSHARK) LabelledBugfixCommits(ctx context.Context, vcsSystemID primitive.ObjectID) ([]domain.Commit, error) {
	return s.commits(ctx, labelledBugfixFilter(vcsSystemID))
}

func (s *SmartSHARK) ValidatedBugfixCommits(ctx context.Context, vcsSystemID primitive.ObjectID) ([]domain.Commit, error) {
	return s.commits(ctx, validatedBugfixFilter(vcsSystemID))
}

func (s *SmartSHARK) commits(ctx context.Context, filter bson.M) ([]domain.Commit, error) {
	// Sort by hash so repeated exports of the same snapshot are identical.
	opts := options.Find().SetSort(bson.D{{Key: "revision_hash", Value: 1}})
	cur, err := s.db.Collection("commit").Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query commits: %w", err)
	}
	var commits []domain.Commit
	if err := cur.All(ctx, &commits); err != nil {
		return nil, fmt.Errorf("failed to decode commits: %w", err)
	}
	return commits, nil
}

func (s *SmartSHARK) CommitByHash(ctx context.Context, revisionHash string) (*domain.Commit, error) {
	var commit domain.Commit
	err := s.db.Collection("commit").FindOne(ctx, bson.M{"revision_hash": revisionHash}).Decode(&commit)
	if err != nil {
		return nil, fmt.Errorf("failed to look up commit %s: %w", revisionHash, err)
	}
	return &commit, nil
}

func (s *SmartSHARK) FileActions(ctx context.Context, commitID primitive.ObjectID) ([]domain.FileAction, error) {
	cur, err := s.db.Collection("file_action").Find(ctx, bson.M{"commit_id": commitID})
	if err != nil {
		return nil, fmt.Errorf("failed to query file actions: %w", err)
	}
	var actions []domain.FileAction
	if err := cur.All(ctx, &actions); err != nil {
		return nil, fmt.Errorf("failed to decode file actions: %w", err)
	}
	return actions, nil
}

func (s *SmartSHARK) FileByID(ctx context.Context, id primitive.ObjectID) (*domain.File, error) {
	var file domain.File
	if err := s.db.Collection("file").FindOne(ctx, bson.M{"_id": id}).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to look up file %s: %w", id.Hex(), err)
	}
	return &file, nil
}

func (s *SmartSHARK) Hunks(ctx context.Context, fileActionID primitive.ObjectID) ([]domain.Hunk, error) {
	cur, err := s.db.Collection("hunk").Find(ctx, bson.M{"file_action_id": fileActionID})
	if err != nil {
		return nil, fmt.Errorf("failed to query hunks: %w", err)
	}
	var hunks []domain.Hunk
	if err := cur.All(ctx, &hunks); err != nil {
		return nil, fmt.Errorf("failed to decode hunks: %w", err)
	}
	return hunks, nil
}

// labelledBugfixFilter selects commits carrying both curated flags.
func labelledBugfixFilter(vcsSystemID primitive.ObjectID) bson.M {
	return bson.M{
		"vcs_system_id":                        vcsSystemID,
		"labels." + domain.FlagValidatedBugfix: true,
		"labels." + domain.FlagHasLabeledLines: true,
	}
}

// validatedBugfixFilter selects commits confirmed to be bug fixes.
func validatedBugfixFilter(vcsSystemID primitive.ObjectID) bson.M {
	return bson.M{
		"vcs_system_id":                        vcsSystemID,
		"labels." + domain.FlagValidatedBugfix: true,
	}
}
