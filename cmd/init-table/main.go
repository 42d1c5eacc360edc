// Command init-table creates the single table with its five indexes and
// optionally seeds sample data for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/config"
	"mugenreco-backend/infrastructure/di"
	"mugenreco-backend/infrastructure/persistence/schema"
)

func main() {
	reset := flag.Bool("reset", false, "drop the table before creating it")
	seed := flag.Bool("seed", false, "insert sample users, posts, and likes")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to load AWS config", zap.Error(err))
	}
	client := di.ProvideDynamoDBClient(awsCfg, cfg)

	if *reset {
		if err := dropTable(ctx, client, cfg.DynamoDBTable, logger); err != nil {
			logger.Fatal("failed to drop table", zap.Error(err))
		}
	}

	if err := createTable(ctx, client, cfg.DynamoDBTable, logger); err != nil {
		logger.Fatal("failed to create table", zap.Error(err))
	}

	if err := seedCategories(ctx, container.CategoryRepo, logger); err != nil {
		logger.Fatal("failed to seed categories", zap.Error(err))
	}

	if *seed {
		if err := seedSampleData(ctx, container, logger); err != nil {
			logger.Fatal("failed to seed sample data", zap.Error(err))
		}
	}

	logger.Info("table ready", zap.String("table", cfg.DynamoDBTable))
}

func dropTable(ctx context.Context, client *dynamodb.Client, tableName string, logger *zap.Logger) error {
	_, err := client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(tableName)})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	logger.Info("dropping table", zap.String("table", tableName))
	waiter := dynamodb.NewTableNotExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, 2*time.Minute)
}

func createTable(ctx context.Context, client *dynamodb.Client, tableName string, logger *zap.Logger) error {
	attributes := []types.AttributeDefinition{
		{AttributeName: aws.String(schema.Primary.PartitionKey), AttributeType: types.ScalarAttributeTypeS},
		{AttributeName: aws.String(schema.Primary.SortKey), AttributeType: types.ScalarAttributeTypeS},
	}
	indexes := make([]types.GlobalSecondaryIndex, 0, len(schema.Indexes))
	for _, index := range schema.Indexes {
		attributes = append(attributes,
			types.AttributeDefinition{AttributeName: aws.String(index.PartitionKey), AttributeType: types.ScalarAttributeTypeS},
			types.AttributeDefinition{AttributeName: aws.String(index.SortKey), AttributeType: types.ScalarAttributeTypeS},
		)
		indexes = append(indexes, types.GlobalSecondaryIndex{
			IndexName: aws.String(index.Name),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(index.PartitionKey), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String(index.SortKey), KeyType: types.KeyTypeRange},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}

	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(schema.Primary.PartitionKey), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(schema.Primary.SortKey), KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions:   attributes,
		GlobalSecondaryIndexes: indexes,
		BillingMode:            types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			logger.Info("table already exists", zap.String("table", tableName))
			return nil
		}
		return err
	}

	logger.Info("creating table", zap.String("table", tableName))
	waiter := dynamodb.NewTableExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, 2*time.Minute)
}

var catalog = []entities.Category{
	{ID: "ALCOHOL", Name: "Alcohol"},
	{ID: "ANIME", Name: "Anime"},
	{ID: "APP", Name: "Apps"},
	{ID: "BOOK", Name: "Books"},
	{ID: "COMIC", Name: "Comics"},
	{ID: "FOOD", Name: "Food"},
	{ID: "GAME", Name: "Games"},
	{ID: "HEALTH", Name: "Health"},
	{ID: "MOVIE", Name: "Movies"},
	{ID: "MUSIC", Name: "Music"},
	{ID: "SWEETS", Name: "Sweets"},
	{ID: "TRAVEL", Name: "Travel"},
}

func seedCategories(ctx context.Context, categories ports.CategoryRepository, logger *zap.Logger) error {
	for i := range catalog {
		if err := categories.Create(ctx, &catalog[i]); err != nil {
			return err
		}
	}
	logger.Info("categories seeded", zap.Int("count", len(catalog)))
	return nil
}

type samplePost struct {
	username string
	fields   entities.PostFields
}

var sampleUsers = []string{"alice", "bob", "charlie", "diana"}

var samplePosts = []samplePost{
	{
		username: "alice",
		fields: entities.PostFields{
			Category:    "BOOK",
			Title:       "Top 3 books that changed how I work",
			Description: "Three reads that actually stuck with me long after finishing them.",
			Recommend1:  "The Pragmatic Programmer",
			Recommend2:  "Deep Work",
			Recommend3:  "Thinking, Fast and Slow",
		},
	},
	{
		username: "bob",
		fields: entities.PostFields{
			Category:    "FOOD",
			Title:       "Top 3 ramen shops in Tokyo",
			Description: "After a year of lunch expeditions, these three are worth the queue.",
			Recommend1:  "Ichiran Shibuya",
			Recommend2:  "Ramen Jiro Mita",
			Recommend3:  "Menya Itto",
		},
	},
	{
		username: "charlie",
		fields: entities.PostFields{
			Category:    "TRAVEL",
			Title:       "Top 3 hot spring towns",
			Description: "Scenery and water quality both count. These have both.",
			Recommend1:  "Kusatsu Onsen",
			Recommend2:  "Hakone Onsen",
			Recommend3:  "Yufuin Onsen",
		},
	},
	{
		username: "diana",
		fields: entities.PostFields{
			Category:    "GAME",
			Title:       "Top 3 games for a group call",
			Description: "Easy to learn, chaotic to play, perfect for an evening with friends.",
			Recommend1:  "Among Us",
			Recommend2:  "Mario Kart",
			Recommend3:  "Apex Legends",
		},
	},
	{
		username: "alice",
		fields: entities.PostFields{
			Category:    "MUSIC",
			Title:       "Top 3 albums to code to",
			Description: "Instrumental, steady, and never distracting.",
			Recommend1:  "Music For Airports",
			Recommend2:  "In Rainbows",
			Recommend3:  "Endless Summer",
		},
	},
	{
		username: "bob",
		fields: entities.PostFields{
			Category:    "MOVIE",
			Title:       "Top 3 films I rewatch every year",
			Description: "Comfort viewing with no skips.",
			Recommend1:  "Spirited Away",
			Recommend2:  "The Grand Budapest Hotel",
			Recommend3:  "Whiplash",
		},
	},
}

// seedSampleData inserts demo users, posts, and likes. Registration going
// through the auth service keeps the username guard and password hashing
// consistent with production signups.
func seedSampleData(ctx context.Context, container *di.Container, logger *zap.Logger) error {
	for _, username := range sampleUsers {
		_, err := container.AuthService.Register(ctx, username, "password-"+username)
		if err != nil {
			// re-running the seeder hits existing users
			logger.Debug("sample user skipped", zap.String("username", username), zap.Error(err))
		}
	}

	postIDs := make([]string, 0, len(samplePosts))
	authors := make(map[string]string, len(samplePosts))
	for _, sample := range samplePosts {
		detail, err := container.PostService.CreatePost(ctx, sample.username, sample.fields)
		if err != nil {
			return err
		}
		postIDs = append(postIDs, detail.ID)
		authors[detail.ID] = sample.username
		// keep feed timestamps distinguishable
		time.Sleep(10 * time.Millisecond)
	}

	likes := 0
	for i, postID := range postIDs {
		for j := 1; j <= 2; j++ {
			liker := sampleUsers[(i+j)%len(sampleUsers)]
			if liker == authors[postID] {
				continue
			}
			if err := container.LikeService.Like(ctx, postID, liker); err != nil {
				logger.Debug("sample like skipped", zap.String("post_id", postID), zap.Error(err))
				continue
			}
			likes++
		}
	}

	logger.Info("sample data seeded",
		zap.Int("users", len(sampleUsers)),
		zap.Int("posts", len(postIDs)),
		zap.Int("likes", likes),
	)
	return nil
}
