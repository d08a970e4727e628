package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoMigrationOp struct {
	Collection string
	Index      mongo.IndexModel
}

var mongoMigrations = map[int][]mongoMigrationOp{
	1: {
		{"memory_schema_version", mongo.IndexModel{
			Keys:    bson.D{{Key: "num", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{collection, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "lastUpdatedAt", Value: -1}},
			Options: options.Index().SetName("idx_memory_items_user_id"),
		}},
	},
}

func (d *MongoDriver) migrateMongo(ctx context.Context) error {
	currentVersion := d.getSchemaVersion(ctx)
	maxVersion := latestVersion(mongoMigrations)

	if currentVersion >= maxVersion {
		return nil
	}

	for v := currentVersion + 1; v <= maxVersion; v++ {
		ops, ok := mongoMigrations[v]
		if !ok {
			continue
		}

		for _, op := range ops {
			coll := d.db().Collection(op.Collection)
			_, err := coll.Indexes().CreateOne(ctx, op.Index)
			if err != nil {
				// Ignore duplicate index errors
				if !mongo.IsDuplicateKeyError(err) {
					return err
				}
			}
		}

		svColl := d.db().Collection("memory_schema_version")
		_, err := svColl.ReplaceOne(
			ctx,
			bson.M{"num": currentVersion},
			bson.M{"num": v},
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return err
		}
		currentVersion = v
	}

	return nil
}

func (d *MongoDriver) getSchemaVersion(ctx context.Context) int {
	svColl := d.db().Collection("memory_schema_version")
	var doc struct {
		Num int `bson:"num"`
	}
	err := svColl.FindOne(ctx, bson.M{}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) || err != nil {
		return 0
	}
	return doc.Num
}
