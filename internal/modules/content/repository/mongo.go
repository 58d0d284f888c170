package repository

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Repository on a MongoDB collection
type Mongo struct {
	col *mongo.Collection
}

// NewMongo creates a new Mongo-backed catalog repository
func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

var newestFirst = bson.D{{Key: "_id", Value: -1}}

func (m *Mongo) Insert(ctx context.Context, c *domain.Content) error {
	c.Normalize()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.ID = primitive.NilObjectID

	res, err := m.col.InsertOne(ctx, c)
	if err != nil {
		return oops.With("title", c.Title).Wrap(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}

func (m *Mongo) Get(ctx context.Context, id string) (*domain.Content, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return m.findOne(ctx, bson.M{"_id": oid})
}

// Update replaces the editable fields of c and clears the field group that
// does not belong to its type.
func (m *Mongo) Update(ctx context.Context, c *domain.Content) error {
	c.Normalize()

	set := bson.M{
		"title":          c.Title,
		"type":           c.Type,
		"poster":         c.Poster,
		"overview":       c.Overview,
		"release_date":   c.ReleaseDate,
		"genres":         c.Genres,
		"languages":      c.Languages,
		"is_trending":    c.IsTrending,
		"is_coming_soon": c.IsComing,
		"poster_badge":   c.Badge,
	}
	unset := bson.M{}
	if c.IsSeries() {
		set["episodes"] = c.Episodes
		set["season_packs"] = c.SeasonPacks
		unset["watch_links"], unset["download_links"], unset["files"] = "", "", ""
	} else {
		set["watch_links"] = c.WatchLinks
		set["download_links"] = c.DownloadLinks
		set["files"] = c.Files
		unset["episodes"], unset["season_packs"] = "", ""
	}
	if c.Badge == "" {
		delete(set, "poster_badge")
		unset["poster_badge"] = ""
	}

	res, err := m.col.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": set, "$unset": unset})
	if err != nil {
		return oops.With("content_id", c.IDHex()).Wrap(err)
	}
	if res.MatchedCount == 0 {
		return oops.With("content_id", c.IDHex()).Wrap(errors.ErrContentNotFound)
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return oops.With("content_id", id).Wrap(err)
	}
	if res.DeletedCount == 0 {
		return oops.With("content_id", id).Wrap(errors.ErrContentNotFound)
	}
	return nil
}

func (m *Mongo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, oops.Wrap(err)
	}
	return res.DeletedCount, nil
}

func (m *Mongo) IncrementViews(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = m.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}})
	return oops.With("content_id", id).Wrap(err)
}

func (m *Mongo) List(ctx context.Context, f Filter) ([]*domain.Content, error) {
	query := bson.M{}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.Trending {
		query["is_trending"] = true
	}
	if f.ComingSoon != nil {
		if *f.ComingSoon {
			query["is_coming_soon"] = true
		} else {
			query["is_coming_soon"] = bson.M{"$ne": true}
		}
	}
	if f.Badge != "" {
		query["poster_badge"] = f.Badge
	}
	if f.Genre != "" {
		query["genres"] = f.Genre
	}
	if q := strings.TrimSpace(f.TitleQuery); q != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	}

	opts := options.Find().SetSort(newestFirst)
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return m.find(ctx, query, opts)
}

func (m *Mongo) Related(ctx context.Context, c *domain.Content, limit int64) ([]*domain.Content, error) {
	if len(c.Genres) == 0 {
		return nil, nil
	}
	query := bson.M{
		"genres": bson.M{"$in": c.Genres},
		"_id":    bson.M{"$ne": c.ID},
	}
	return m.find(ctx, query, options.Find().SetSort(newestFirst).SetLimit(limit))
}

func (m *Mongo) DistinctBadges(ctx context.Context) ([]string, error) {
	return m.distinct(ctx, "poster_badge")
}

func (m *Mongo) DistinctGenres(ctx context.Context) ([]string, error) {
	return m.distinct(ctx, "genres")
}

func (m *Mongo) FindSeriesByTitle(ctx context.Context, title string) (*domain.Content, error) {
	return m.findOne(ctx, bson.M{
		"type":  domain.ContentTypeSeries,
		"title": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(title)) + "$", Options: "i"},
	})
}

func (m *Mongo) FindByTMDB(ctx context.Context, tmdbID int64, contentType domain.ContentType) (*domain.Content, error) {
	return m.findOne(ctx, bson.M{"tmdb_id": tmdbID, "type": contentType})
}

func (m *Mongo) UpsertByTMDB(ctx context.Context, c *domain.Content) (bool, error) {
	if c.TMDBID == 0 {
		return false, oops.With("title", c.Title).Errorf("upsert requires a tmdb id")
	}
	c.Normalize()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	doc, err := toDocument(c)
	if err != nil {
		return false, err
	}
	delete(doc, "_id")

	res, err := m.col.UpdateOne(ctx,
		bson.M{"tmdb_id": c.TMDBID, "type": c.Type},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the race against a concurrent upsert of the same record.
		return false, nil
	}
	if err != nil {
		return false, oops.With("tmdb_id", c.TMDBID).Wrap(err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return res.UpsertedCount > 0, nil
}

func (m *Mongo) PutEpisode(ctx context.Context, id string, ep domain.Episode) error {
	ep.WatchLinks = domain.CleanLinks(ep.WatchLinks)
	ep.DownloadLinks = domain.CleanLinks(ep.DownloadLinks)
	return m.putKeyed(ctx, id, "episodes", ep, bson.A{
		bson.M{"$eq": bson.A{"$$item.season", ep.Season}},
		bson.M{"$eq": bson.A{"$$item.episode_number", ep.Number}},
	})
}

func (m *Mongo) PutSeasonPack(ctx context.Context, id string, pack domain.SeasonPack) error {
	pack.WatchLinks = domain.CleanLinks(pack.WatchLinks)
	pack.DownloadLinks = domain.CleanLinks(pack.DownloadLinks)
	return m.putKeyed(ctx, id, "season_packs", pack, bson.A{
		bson.M{"$eq": bson.A{"$$item.season", pack.Season}},
	})
}

func (m *Mongo) PutFile(ctx context.Context, id string, file domain.TelegramFile) error {
	return m.putKeyed(ctx, id, "files", file, bson.A{
		bson.M{"$eq": bson.A{bson.M{"$toLower": "$$item.quality"}, strings.ToLower(file.Quality)}},
	})
}

// putKeyed drops every element of field matching all key conditions and appends
// item, in a single pipeline update so the replacement is atomic.
func (m *Mongo) putKeyed(ctx context.Context, id, field string, item any, key bson.A) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	kept := bson.M{"$filter": bson.M{
		"input": bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}},
		"as":    "item",
		"cond":  bson.M{"$not": bson.A{bson.M{"$and": key}}},
	}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field: bson.M{"$concatArrays": bson.A{kept, bson.A{bson.M{"$literal": item}}}},
		}}},
	}

	res, err := m.col.UpdateOne(ctx, bson.M{"_id": oid}, pipeline)
	if err != nil {
		return oops.With("content_id", id, "field", field).Wrap(err)
	}
	if res.MatchedCount == 0 {
		return oops.With("content_id", id).Wrap(errors.ErrContentNotFound)
	}
	return nil
}

func (m *Mongo) findOne(ctx context.Context, query bson.M) (*domain.Content, error) {
	var c domain.Content
	err := m.col.FindOne(ctx, query).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrContentNotFound
	}
	if err != nil {
		return nil, oops.Wrap(err)
	}
	return &c, nil
}

func (m *Mongo) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Content, error) {
	cursor, err := m.col.Find(ctx, query, opts)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	defer cursor.Close(ctx)

	var items []*domain.Content
	if err := cursor.All(ctx, &items); err != nil {
		return nil, oops.Wrap(err)
	}
	return items, nil
}

// distinct returns the sorted, non-blank string values of field.
func (m *Mongo) distinct(ctx context.Context, field string) ([]string, error) {
	values, err := m.col.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, oops.With("field", field).Wrap(err)
	}

	return facetValues(values), nil
}

// facetValues keeps the distinct non-blank strings, sorted.
func facetValues(values []interface{}) []string {
	out := lo.Uniq(lo.FilterMap(values, func(v interface{}, _ int) (string, bool) {
		s, ok := v.(string)
		s = strings.TrimSpace(s)
		return s, ok && s != ""
	}))
	sort.Strings(out)
	return out
}

func toDocument(c *domain.Content) (bson.M, error) {
	raw, err := bson.Marshal(c)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, oops.Wrap(err)
	}
	return doc, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, oops.With("id", id).Wrap(errors.ErrInvalidID)
	}
	return oid, nil
}
