package storage

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marmot/errors"
	"marmot/model"
	"marmot/utils/log"
	"marmot/utils/pointer"
)

const connectTimeout = 5 * time.Second

// MongoKlineStore : kline collection backed by MongoDB.
type MongoKlineStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoKlineStore connects, pings and ensures the collection indexes.
func NewMongoKlineStore(ctx context.Context, uri, dbName, collectionName string) (*MongoKlineStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMinPoolSize(1).
		SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}

	store := &MongoKlineStore{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
	}
	if err := store.ensureIndexes(connectCtx); err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}
	log.Infof("[SETUP] mongo store ready: %s/%s", dbName, collectionName)
	return store, nil
}

func (s *MongoKlineStore) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "open_time", Value: 1}}},
		{Keys: bson.D{{Key: "open_time", Value: 1}, {Key: "symbol", Value: 1}}},
	})
	return err
}

func (s *MongoKlineStore) Insert(ctx context.Context, kline model.Kline) (string, error) {
	result, err := s.collection.InsertOne(ctx, kline)
	if err != nil {
		return "", errors.NewStorageUnavailable(err)
	}
	id, _ := result.InsertedID.(primitive.ObjectID)
	return id.Hex(), nil
}

func (s *MongoKlineStore) InsertMany(ctx context.Context, klines []model.Kline) error {
	if len(klines) == 0 {
		return nil
	}
	docs := make([]interface{}, len(klines))
	for i, k := range klines {
		docs[i] = k
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return errors.NewStorageUnavailable(err)
	}
	return nil
}

// Find is the bulk read used by the KPI aggregator: no pagination, no sort.
func (s *MongoKlineStore) Find(ctx context.Context, filter model.KlineFilter) ([]model.Kline, error) {
	cursor, err := s.collection.Find(ctx, buildQuery(filter))
	if err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}
	var klines []model.Kline
	if err := cursor.All(ctx, &klines); err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}
	return klines, nil
}

func (s *MongoKlineStore) List(ctx context.Context, filter model.KlineFilter, opts model.ListOptions) ([]model.Kline, error) {
	field, direction := sortSpec(opts)

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	cursor, err := s.collection.Find(ctx, buildQuery(filter), options.Find().
		SetSort(bson.D{{Key: field, Value: direction}}).
		SetSkip(opts.Skip).
		SetLimit(limit))
	if err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}
	var klines []model.Kline
	if err := cursor.All(ctx, &klines); err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}
	return klines, nil
}

func (s *MongoKlineStore) Get(ctx context.Context, id string) (model.Kline, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Kline{}, errors.NewInvalidFilter("invalid kline id")
	}

	var kline model.Kline
	err = s.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&kline)
	if err == mongo.ErrNoDocuments {
		return model.Kline{}, errors.NewNotFound("kline")
	}
	if err != nil {
		return model.Kline{}, errors.NewStorageUnavailable(err)
	}
	return kline, nil
}

func (s *MongoKlineStore) Update(ctx context.Context, id string, update model.KlineUpdate) (model.Kline, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Kline{}, errors.NewInvalidFilter("invalid kline id")
	}

	set := updateDocument(update)
	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	var kline model.Kline
	err = s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&kline)
	if err == mongo.ErrNoDocuments {
		return model.Kline{}, errors.NewNotFound("kline")
	}
	if err != nil {
		return model.Kline{}, errors.NewStorageUnavailable(err)
	}
	return kline, nil
}

func (s *MongoKlineStore) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.NewInvalidFilter("invalid kline id")
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return errors.NewStorageUnavailable(err)
	}
	if result.DeletedCount == 0 {
		return errors.NewNotFound("kline")
	}
	return nil
}

func (s *MongoKlineStore) Count(ctx context.Context, filter model.KlineFilter) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, buildQuery(filter))
	if err != nil {
		return 0, errors.NewStorageUnavailable(err)
	}
	return count, nil
}

func (s *MongoKlineStore) DistinctSymbols(ctx context.Context) ([]string, error) {
	raw, err := s.collection.Distinct(ctx, "symbol", bson.M{})
	if err != nil {
		return nil, errors.NewStorageUnavailable(err)
	}
	symbols := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			symbols = append(symbols, s)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (s *MongoKlineStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return errors.NewStorageUnavailable(err)
	}
	return nil
}

func (s *MongoKlineStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func updateDocument(update model.KlineUpdate) bson.M {
	set := bson.M{}
	if update.OpenTime != nil {
		set["open_time"] = *update.OpenTime
	}
	if update.CloseTime != nil {
		set["close_time"] = *update.CloseTime
	}
	if update.Symbol != nil {
		set["symbol"] = *update.Symbol
	}
	if update.Interval != nil {
		set["interval"] = *update.Interval
	}
	if update.OpenPrice != nil {
		set["open_price"] = *update.OpenPrice
	}
	if update.ClosePrice != nil {
		set["close_price"] = *update.ClosePrice
	}
	if update.HighPrice != nil {
		set["high_price"] = *update.HighPrice
	}
	if update.LowPrice != nil {
		set["low_price"] = *update.LowPrice
	}
	if update.Volume != nil {
		set["volume"] = *update.Volume
	}
	if update.QuoteAssetVolume != nil {
		set["quote_asset_volume"] = *update.QuoteAssetVolume
	}
	if update.NumberOfTrades != nil {
		set["number_of_trades"] = *update.NumberOfTrades
	}
	if update.TakerBuyBaseAssetVolume != nil {
		set["taker_buy_base_asset_volume"] = *update.TakerBuyBaseAssetVolume
	}
	if update.TakerBuyQuoteAssetVolume != nil {
		set["taker_buy_quote_asset_volume"] = *update.TakerBuyQuoteAssetVolume
	}
	if update.AggTrades != nil {
		set["aggtrades"] = pointer.NotNull(update.AggTrades, []model.AggTrade{})
	}
	return set
}
