/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/aggregatestore/errors"
)

// EntityTypeAttribute is written on every item so mixed tables can be told apart.
const EntityTypeAttribute = "EntityType"

// API is the subset of the DynamoDB client used by Store.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// ClientConfig holds the settings for NewClient.
type ClientConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// NewClient initializes a DynamoDB client. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewClient(ctx context.Context, cfg ClientConfig) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Store implements repository.Repository[T] on a single DynamoDB table.
// Keys are derived from an index map such as {"PK": "ORDER#{ID}", "SK": "ORDER#{ID}"}.
type Store[T any] struct {
	client     API
	tableName  string
	indexMap   map[string]string
	entityType string
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// New constructs a Store for aggregate type T.
func New[T any](client API, tableName string, indexMap map[string]string) (*Store[T], error) {
	if client == nil {
		return nil, errors.NewValidationError("client", "dynamodb client is required")
	}
	if tableName == "" {
		return nil, errors.NewValidationError("tableName", "table name is required")
	}
	if indexMap["PK"] == "" || indexMap["SK"] == "" {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoIndexMap, reflect.TypeFor[T]())
	}

	idx := make(map[string]string, len(indexMap))
	for k, v := range indexMap {
		idx[k] = v
	}

	return &Store[T]{
		client:     client,
		tableName:  tableName,
		indexMap:   idx,
		entityType: reflect.TypeFor[T]().Name(),
	}, nil
}

// TableName returns the table the store writes to.
func (d *Store[T]) TableName() string {
	return d.tableName
}

// Get retrieves a single aggregate by its root ID.
func (d *Store[T]) Get(ctx context.Context, aggregateRootID string) (*T, error) {
	if aggregateRootID == "" {
		return nil, errors.NewValidationError("aggregateRootID", "must not be empty")
	}

	keyMap, err := buildKeyFromExpanded(expandStringKey(d.indexMap, aggregateRootID))
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, errors.NewNotFoundError(d.entityType, aggregateRootID)
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// Put stores the aggregate, populating the key attributes from the index map.
func (d *Store[T]) Put(ctx context.Context, aggregate T) error {
	av, err := attributevalue.MarshalMap(aggregate)
	if err != nil {
		return fmt.Errorf("failed to marshal aggregate: %w", err)
	}

	expanded := expandMacros(d.indexMap, av)
	if _, err := buildKeyFromExpanded(expanded); err != nil {
		return errors.NewValidationError("key", err.Error())
	}

	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}
	av[EntityTypeAttribute] = &types.AttributeValueMemberS{Value: d.entityType}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// Delete removes an aggregate by its root ID. Deleting an absent item
// returns a NotFoundError.
func (d *Store[T]) Delete(ctx context.Context, aggregateRootID string) error {
	if aggregateRootID == "" {
		return errors.NewValidationError("aggregateRootID", "must not be empty")
	}

	keyMap, err := buildKeyFromExpanded(expandStringKey(d.indexMap, aggregateRootID))
	if err != nil {
		return fmt.Errorf("failed to build key for Delete: %w", err)
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:                &d.tableName,
		Key:                      keyMap,
		ConditionExpression:      aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": "PK"},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return fmt.Errorf("%w: %w: %w",
				errors.NewNotFoundError(d.entityType, aggregateRootID),
				errors.NewConditionFailedError("delete", cfe.ErrorMessage()),
				err)
		}
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// expandMacros replaces "{Field}" macros in each template with the string
// form of the matching attribute.
func expandMacros(indexMap map[string]string, av map[string]types.AttributeValue) map[string]string {
	res := make(map[string]string, len(indexMap))
	for fieldName, template := range indexMap {
		res[fieldName] = macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			val, ok := av[strings.Trim(macro, "{}")]
			if !ok {
				return ""
			}
			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				// binary, sets, NULL and nested values have no key form
				return ""
			}
		})
	}
	return res
}

// expandStringKey replaces every macro in the index map templates with key.
func expandStringKey(indexMap map[string]string, key string) map[string]string {
	expanded := make(map[string]string, len(indexMap))
	for field, template := range indexMap {
		expanded[field] = macroPattern.ReplaceAllLiteralString(template, key)
	}
	return expanded
}

// buildKeyFromExpanded builds the primary key from the expanded index map.
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded["PK"]
	sk, okSK := expanded["SK"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, stderrors.New("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}
