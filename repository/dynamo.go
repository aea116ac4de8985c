package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"maplenotes/config"
	"maplenotes/model"
	"maplenotes/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore implements Store on a single table with a composite
// PK/SK key. The key layout keeps every operation a single-key read,
// range query or conditional write:
//
//	USER#<userId>       / PROFILE        canonical user record
//	USERNAME#<username> / PROFILE        username claim + lookup record
//	USER#<userId>       / NOTE#<noteId>  one note
//
// The claim item is written in the same transaction as the canonical
// record, so signup is atomic and FindUserByUsername is a strongly
// consistent GetItem instead of a secondary-index query.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
}

// dynamoAPI is the slice of the DynamoDB client the store uses.
type dynamoAPI interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

const skProfile = "PROFILE"

func userPK(userID string) string { return "USER#" + userID }

func usernamePK(username string) string { return "USERNAME#" + username }

func noteSK(noteID string) string { return "NOTE#" + noteID }

// userItem is the DynamoDB shape shared by the canonical user record
// and the username claim item.
type userItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	UserID    string `dynamodbav:"UserId"`
	Username  string `dynamodbav:"Username"`
	Password  string `dynamodbav:"Password"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

type noteItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	NoteID    string `dynamodbav:"NoteId"`
	UserID    string `dynamodbav:"UserId"`
	Title     string `dynamodbav:"Title"`
	Content   string `dynamodbav:"Content,omitempty"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

// NewDynamoStore builds the DynamoDB client and verifies the table is
// reachable, optionally creating it for local development.
func NewDynamoStore(ctx context.Context, cfg config.DynamoConfig) (*DynamoStore, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		// dynamodb-local accepts any static credentials.
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	store := &DynamoStore{
		client:    client,
		tableName: cfg.TableName,
	}

	if cfg.CreateTable {
		if err := store.createTable(ctx); err != nil {
			return nil, err
		}
	}

	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach table %s: %w", cfg.TableName, err)
	}

	return store, nil
}

func (s *DynamoStore) createTable(ctx context.Context) error {
	_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (s *DynamoStore) Backend() string { return "dynamodb" }

func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	return err
}

func (s *DynamoStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("get", "users")
	defer timer.ObserveDuration()

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: usernamePK(username)},
			"SK": &types.AttributeValueMemberS{Value: skProfile},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return item.toUser()
}

func (s *DynamoStore) InsertUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	timer := utils.TrackDBOperation("transact_write", "users")
	defer timer.ObserveDuration()

	user := &model.User{
		UserID:    utils.GenerateID(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}

	canonical := userItem{
		PK:        userPK(user.UserID),
		SK:        skProfile,
		UserID:    user.UserID,
		Username:  user.Username,
		Password:  user.Password,
		CreatedAt: user.CreatedAt.Format(time.RFC3339Nano),
	}
	claim := canonical
	claim.PK = usernamePK(user.Username)

	canonicalAV, err := attributevalue.MarshalMap(canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}
	claimAV, err := attributevalue.MarshalMap(claim)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal username claim: %w", err)
	}

	// Both items land in one transaction; the condition on the claim
	// item makes the whole signup an atomic insert-if-absent.
	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.tableName),
					Item:                claimAV,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(s.tableName),
					Item:      canonicalAV,
				},
			},
		},
	})
	if err != nil {
		if isConditionalCancellation(err) {
			return nil, ErrUsernameTaken
		}
		utils.TrackError("database", "user_creation_failed")
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// isConditionalCancellation reports whether a transaction was rejected
// by a condition check, as opposed to a transport or capacity failure.
func isConditionalCancellation(err error) bool {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return false
	}
	for _, reason := range canceled.CancellationReasons {
		if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

func (s *DynamoStore) VerifyCredentials(ctx context.Context, username, password string) (*model.User, error) {
	return verifyCredentials(ctx, s, username, password)
}

func (s *DynamoStore) ListNotesForUser(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("query", "notes")
	defer timer.ObserveDuration()

	notes := []*model.Note{}
	var startKey map[string]types.AttributeValue

	// A single Query response is capped at 1 MB, so large partitions
	// arrive in pages chained through LastEvaluatedKey.
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: userPK(userID)},
				":sk": &types.AttributeValueMemberS{Value: "NOTE#"},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			utils.TrackError("database", "notes_list_error")
			return nil, fmt.Errorf("failed to query notes: %w", err)
		}

		var items []noteItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notes: %w", err)
		}

		for _, item := range items {
			note, err := item.toNote()
			if err != nil {
				return nil, err
			}
			notes = append(notes, note)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	// The sort key orders notes by id, not age.
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	return notes, nil
}

func (s *DynamoStore) InsertNote(ctx context.Context, userID, title, content string) (*model.Note, error) {
	if userID == "" || title == "" {
		return nil, ErrMissingFields
	}

	timer := utils.TrackDBOperation("put", "notes")
	defer timer.ObserveDuration()

	note := &model.Note{
		NoteID:    utils.GenerateID(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	item := noteItem{
		PK:        userPK(note.UserID),
		SK:        noteSK(note.NoteID),
		NoteID:    note.NoteID,
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal note: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		utils.TrackError("database", "note_creation_failed")
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}

	return note, nil
}

// DeleteNote needs the owner id to form the composite key. The
// existence condition turns DynamoDB's idempotent delete into the same
// not-found report the document backend gives.
func (s *DynamoStore) DeleteNote(ctx context.Context, noteID, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}

	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: noteSK(noteID)},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return ErrNoteNotFound
		}
		utils.TrackError("database", "note_deletion_failed")
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

func (i userItem) toUser() (*model.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user timestamp: %w", err)
	}
	return &model.User{
		UserID:    i.UserID,
		Username:  i.Username,
		Password:  i.Password,
		CreatedAt: createdAt,
	}, nil
}

func (i noteItem) toNote() (*model.Note, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse note timestamp: %w", err)
	}
	return &model.Note{
		NoteID:    i.NoteID,
		UserID:    i.UserID,
		Title:     i.Title,
		Content:   i.Content,
		CreatedAt: createdAt,
	}, nil
}
