package store

import (
	"context"
	"iter"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rbscholtus/connecdoku/internal/corpus"
)

// layoutDoc is the BSON shape of a stored layout, matching the logical
// schema in spec.md section 4.4 field-for-field.
type layoutDoc struct {
	Hash       string     `bson:"puzzle_hash"`
	Row0       string     `bson:"row0"`
	Row1       string     `bson:"row1"`
	Row2       string     `bson:"row2"`
	Row3       string     `bson:"row3"`
	Col0       string     `bson:"col0"`
	Col1       string     `bson:"col1"`
	Col2       string     `bson:"col2"`
	Col3       string     `bson:"col3"`
	Score      *float64   `bson:"score,omitempty"`
	WordMatrix *[16]string `bson:"word_matrix,omitempty"`
}

// MongoStore is the production Store backend, backed by a single
// collection with a unique index on puzzle_hash. Transient driver
// errors (timeouts, network errors, and duplicate-key races under
// concurrent insert) are surfaced as ErrBusy so the caller's bounded
// backoff (spec.md section 4.4) can retry; everything else is
// ErrFailure.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore connects to uri and returns a MongoStore over
// database.collection "layouts", ensuring the unique index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	coll := client.Database(database).Collection("layouts")

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "puzzle_hash", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoStore{coll: coll}, nil
}

func toDoc(hash string, l Layout) layoutDoc {
	return layoutDoc{
		Hash: hash,
		Row0: string(l.Rows[0]), Row1: string(l.Rows[1]), Row2: string(l.Rows[2]), Row3: string(l.Rows[3]),
		Col0: string(l.Cols[0]), Col1: string(l.Cols[1]), Col2: string(l.Cols[2]), Col3: string(l.Cols[3]),
	}
}

func (d layoutDoc) toStored() StoredLayout {
	return StoredLayout{
		Hash: d.Hash,
		Rows: [4]corpus.Label{corpus.Label(d.Row0), corpus.Label(d.Row1), corpus.Label(d.Row2), corpus.Label(d.Row3)},
		Cols: [4]corpus.Label{corpus.Label(d.Col0), corpus.Label(d.Col1), corpus.Label(d.Col2), corpus.Label(d.Col3)},
		Score:      d.Score,
		WordMatrix: d.WordMatrix,
	}
}

func (m *MongoStore) Insert(ctx context.Context, l Layout) (InsertResult, error) {
	hash := Fingerprint(l)
	_, err := m.coll.InsertOne(ctx, toDoc(hash, l))
	if err == nil {
		return InsertResult{Hash: hash, Duplicate: false}, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return InsertResult{Hash: hash, Duplicate: true}, nil
	}
	if isTransient(err) {
		return InsertResult{}, ErrBusy
	}
	return InsertResult{}, ErrFailure
}

func (m *MongoStore) Scan(ctx context.Context, r HashRange) iter.Seq2[StoredLayout, error] {
	filter := bson.M{"puzzle_hash": bson.M{"$gte": r.Lo}}
	if r.Hi != "" {
		filter["puzzle_hash"].(bson.M)["$lt"] = r.Hi
	}
	opts := options.Find().SetSort(bson.D{{Key: "puzzle_hash", Value: 1}})

	return func(yield func(StoredLayout, error) bool) {
		cur, err := m.coll.Find(ctx, filter, opts)
		if err != nil {
			yield(StoredLayout{}, classify(err))
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var d layoutDoc
			if err := cur.Decode(&d); err != nil {
				if !yield(StoredLayout{}, classify(err)) {
					return
				}
				continue
			}
			if !yield(d.toStored(), nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(StoredLayout{}, classify(err))
		}
	}
}

func (m *MongoStore) Delete(ctx context.Context, hashes []string) (int, error) {
	res, err := m.coll.DeleteMany(ctx, bson.M{"puzzle_hash": bson.M{"$in": hashes}})
	if err != nil {
		return 0, classify(err)
	}
	return int(res.DeletedCount), nil
}

func (m *MongoStore) UpsertScores(ctx context.Context, pairs []ScorePair) error {
	if len(pairs) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(pairs))
	for _, p := range pairs {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"puzzle_hash": p.Hash}).
			SetUpdate(bson.M{"$set": bson.M{"score": p.Score}}))
	}
	_, err := m.coll.BulkWrite(ctx, models)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (m *MongoStore) CommitWords(ctx context.Context, hash string, words [16]string) error {
	res, err := m.coll.UpdateOne(ctx,
		bson.M{"puzzle_hash": hash},
		bson.M{"$set": bson.M{"word_matrix": words}})
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func isTransient(err error) bool {
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err) || mongo.IsDuplicateKeyError(err)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return ErrBusy
	}
	return ErrFailure
}
