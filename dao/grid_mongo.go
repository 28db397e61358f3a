package dao

import (
	"context"
	"errors"

	"navgrid/nav"

	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GridMongo struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Identifier string             `bson:"identifier"`
	Data       []byte             `bson:"data"`
}

func (d *Dao) SaveGrid(gridData *nav.GridData) error {
	if d.mongo == nil {
		err := d.SaveGridGorm(gridData)
		if err != nil {
			return err
		}
		d.cacheGridRedis(gridData)
		return nil
	}
	data, err := msgpack.Marshal(gridData)
	if err != nil {
		return err
	}
	db := d.mongoDb.Collection("grid")
	_, err = db.UpdateOne(
		context.TODO(),
		bson.D{{Key: "identifier", Value: gridData.Identifier}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "data", Value: data}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	d.cacheGridRedis(gridData)
	return nil
}

func (d *Dao) QueryGrid(identifier string) (*nav.GridData, error) {
	gridData := d.queryGridRedis(identifier)
	if gridData != nil {
		return gridData, nil
	}
	if d.mongo == nil {
		gridData, err := d.QueryGridGorm(identifier)
		if err != nil {
			return nil, err
		}
		if gridData != nil {
			d.cacheGridRedis(gridData)
		}
		return gridData, nil
	}
	db := d.mongoDb.Collection("grid")
	result := db.FindOne(
		context.TODO(),
		bson.D{{Key: "identifier", Value: identifier}},
	)
	gridMongo := new(GridMongo)
	err := result.Decode(gridMongo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	gridData = new(nav.GridData)
	err = msgpack.Unmarshal(gridMongo.Data, gridData)
	if err != nil {
		return nil, err
	}
	d.cacheGridRedis(gridData)
	return gridData, nil
}

func (d *Dao) QueryGridIdentifierList() ([]string, error) {
	if d.mongo == nil {
		return d.QueryGridIdentifierListGorm()
	}
	db := d.mongoDb.Collection("grid")
	cursor, err := db.Find(context.TODO(), bson.D{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(context.TODO())
	}()
	identifierList := make([]string, 0)
	for cursor.Next(context.TODO()) {
		gridMongo := new(GridMongo)
		err := cursor.Decode(gridMongo)
		if err != nil {
			return nil, err
		}
		identifierList = append(identifierList, gridMongo.Identifier)
	}
	return identifierList, nil
}

func (d *Dao) DeleteGrid(identifier string) error {
	d.evictGridRedis(identifier)
	if d.mongo == nil {
		return d.DeleteGridGorm(identifier)
	}
	db := d.mongoDb.Collection("grid")
	_, err := db.DeleteOne(
		context.TODO(),
		bson.D{{Key: "identifier", Value: identifier}},
	)
	if err != nil {
		return err
	}
	return nil
}
