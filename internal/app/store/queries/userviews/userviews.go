// Package userviews provides the read-only expanded views of users, their
// threads, and the replies they receive.
package userviews

import (
	"context"

	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// summaryProjection is used for both expanded authors and expanded
// communities.
var summaryProjection = bson.M{"_id": 1, "id": 1, "name": 1, "image": 1}

// UserDetail loads the user with the given identity together with its
// communities, in the order the user stores them. Returns nil when no user
// has that identity.
func UserDetail(ctx context.Context, db *mongo.Database, identity string) (*models.UserDetail, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"id": identity}}},
		bson.D{{Key: "$limit", Value: 1}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "communities",
			"let":  bson.M{"ids": bson.M{"$ifNull": bson.A{"$communities", bson.A{}}}},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$in": bson.A{"$_id", "$$ids"}}}},
			},
			"as": "community_docs",
		}}},
	}

	cur, err := db.Collection("users").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		models.User   `bson:",inline"`
		CommunityDocs []models.Community `bson:"community_docs"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	byID := make(map[primitive.ObjectID]models.Community, len(row.CommunityDocs))
	for _, c := range row.CommunityDocs {
		byID[c.ID] = c
	}
	detail := &models.UserDetail{User: row.User, Communities: []models.Community{}}
	for _, id := range row.User.Communities {
		if c, ok := byID[id]; ok {
			detail.Communities = append(detail.Communities, c)
		}
	}
	return detail, nil
}

type replyRow struct {
	models.Thread `bson:",inline"`
	AuthorDocs    []models.AuthorSummary `bson:"author_docs"`
}

func (r replyRow) reply() models.Reply {
	out := models.Reply{Thread: r.Thread}
	if out.Thread.Children == nil {
		out.Thread.Children = []primitive.ObjectID{}
	}
	if len(r.AuthorDocs) > 0 {
		a := r.AuthorDocs[0]
		out.Author = &a
	}
	return out
}

// authorLookup expands "author" into author_docs using the summary projection.
func authorLookup() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from": "users",
		"let":  bson.M{"aid": "$author"},
		"pipeline": bson.A{
			bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$aid"}}}},
			bson.M{"$project": summaryProjection},
		},
		"as": "author_docs",
	}}}
}

// UserThreads loads the user with the given identity and every thread in
// its threads list. Each thread carries its community summary and its
// children, and each child carries its author summary. Threads keep the
// user's order and children keep the parent's order. Returns nil when no
// user has that identity.
func UserThreads(ctx context.Context, db *mongo.Database, identity string) (*models.UserThreads, error) {
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"id": identity}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	out := &models.UserThreads{User: user, Threads: []models.ThreadDetail{}}
	if len(user.Threads) == 0 {
		return out, nil
	}

	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": user.Threads}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "communities",
			"let":  bson.M{"cid": "$community"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$cid"}}}},
				bson.M{"$project": summaryProjection},
			},
			"as": "community_docs",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "threads",
			"let":  bson.M{"kids": bson.M{"$ifNull": bson.A{"$children", bson.A{}}}},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$in": bson.A{"$_id", "$$kids"}}}},
				authorLookup(),
			},
			"as": "child_docs",
		}}},
	}

	cur, err := db.Collection("threads").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		models.Thread `bson:",inline"`
		CommunityDocs []models.CommunitySummary `bson:"community_docs"`
		ChildDocs     []replyRow                `bson:"child_docs"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.ThreadDetail, len(rows))
	for _, row := range rows {
		td := models.ThreadDetail{Thread: row.Thread, Children: []models.Reply{}}
		if td.Thread.Children == nil {
			td.Thread.Children = []primitive.ObjectID{}
		}
		if len(row.CommunityDocs) > 0 {
			c := row.CommunityDocs[0]
			td.Community = &c
		}

		kids := make(map[primitive.ObjectID]replyRow, len(row.ChildDocs))
		for _, k := range row.ChildDocs {
			kids[k.ID] = k
		}
		for _, id := range td.Thread.Children {
			if k, ok := kids[id]; ok {
				td.Children = append(td.Children, k.reply())
			}
		}
		byID[row.ID] = td
	}

	for _, id := range user.Threads {
		if td, ok := byID[id]; ok {
			out.Threads = append(out.Threads, td)
		}
	}
	return out, nil
}

// Replies loads the threads in ids that were not authored by excludeAuthor,
// newest first, each with its author expanded.
func Replies(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID, excludeAuthor primitive.ObjectID) ([]models.Reply, error) {
	out := []models.Reply{}
	if len(ids) == 0 {
		return out, nil
	}

	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"_id":    bson.M{"$in": ids},
			"author": bson.M{"$ne": excludeAuthor},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		authorLookup(),
	}

	cur, err := db.Collection("threads").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row replyRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.reply())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
