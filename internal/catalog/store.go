package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/HanSolo4203/RSA-v4/internal/awsx"
)

// ErrServiceNotFound is returned when an update targets a missing service id.
var ErrServiceNotFound = errors.New("service not found")

// Store encapsulates operations on the services table.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
	newID     func() string
}

// NewStore creates a new catalog Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
		newID:     uuid.NewString,
	}
}

// Create persists a new service. The id and createdAt are assigned here;
// a service with no isActive decision starts active.
func (s *Store) Create(ctx context.Context, svc Service) (Service, error) {
	svc.ID = s.newID()
	svc.CreatedAt = s.nowFunc().UTC()

	item, err := attributevalue.MarshalMap(svc)
	if err != nil {
		return Service{}, fmt.Errorf("marshal service: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(id)"),
	})
	if err != nil {
		return Service{}, fmt.Errorf("put service: %w", err)
	}
	return svc, nil
}

// Get fetches a service by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id string) (*Service, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var svc Service
	if err := attributevalue.UnmarshalMap(out.Item, &svc); err != nil {
		return nil, fmt.Errorf("unmarshal service: %w", err)
	}
	return &svc, nil
}

// Update applies a patch to an existing service. Returns ErrServiceNotFound
// if the id does not exist.
func (s *Store) Update(ctx context.Context, id string, patch Patch) error {
	expr := ""
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	set := func(attr, placeholder string, v types.AttributeValue) {
		if expr != "" {
			expr += ", "
		}
		name := "#" + placeholder
		expr += fmt.Sprintf("%s = :%s", name, placeholder)
		names[name] = attr
		values[":"+placeholder] = v
	}

	if patch.Name != nil {
		set("name", "n", &types.AttributeValueMemberS{Value: *patch.Name})
	}
	if patch.Description != nil {
		set("description", "d", &types.AttributeValueMemberS{Value: *patch.Description})
	}
	if patch.PricePerItem != nil {
		set("pricePerItem", "pi", &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", *patch.PricePerItem)})
	}
	if patch.PricePerPound != nil {
		set("pricePerPound", "pp", &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", *patch.PricePerPound)})
	}
	if patch.IsActive != nil {
		set("isActive", "a", &types.AttributeValueMemberBOOL{Value: *patch.IsActive})
	}
	if expr == "" {
		return nil
	}

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          awsString("SET " + expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// Archive flags a service inactive. Archived services stop being offered but
// remain valid targets for existing order lines.
func (s *Store) Archive(ctx context.Context, id string) error {
	inactive := false
	return s.Update(ctx, id, Patch{IsActive: &inactive})
}

// List returns every service in the catalog, sorted by name.
func (s *Store) List(ctx context.Context) ([]Service, error) {
	return s.scan(ctx, false)
}

// ListActive returns only active services, sorted by name. This is the
// catalog read the customer-facing form uses.
func (s *Store) ListActive(ctx context.Context) ([]Service, error) {
	return s.scan(ctx, true)
}

func (s *Store) scan(ctx context.Context, activeOnly bool) ([]Service, error) {
	var services []Service
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan services: %w", err)
		}
		for _, item := range out.Items {
			var svc Service
			if err := attributevalue.UnmarshalMap(item, &svc); err != nil {
				return nil, fmt.Errorf("unmarshal service: %w", err)
			}
			if activeOnly && !svc.IsActive {
				continue
			}
			services = append(services, svc)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services, nil
}

func awsString(s string) *string { return &s }
