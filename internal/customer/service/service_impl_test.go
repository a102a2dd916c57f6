package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientbase/internal/customer/domain"
	"github.com/smallbiznis/clientbase/internal/customer/repository"
	"github.com/smallbiznis/clientbase/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Customer{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	svc := New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, dbConn
}

func countCustomers(t *testing.T, dbConn *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := dbConn.Model(&domain.Customer{}).Count(&count).Error; err != nil {
		t.Fatalf("count customers: %v", err)
	}
	return count
}

func TestCreateCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	customer, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:  "Ana",
		Email: "ana@x.com",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	if customer.ID == 0 {
		t.Fatal("expected generated id")
	}
	if !customer.Status {
		t.Fatal("expected status to default to active")
	}
	if customer.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestCreateCustomerUniqueIDs(t *testing.T) {
	svc, _ := newTestService(t)

	seen := map[snowflake.ID]bool{}
	for i := 0; i < 10; i++ {
		customer, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
			Name:  fmt.Sprintf("Customer %d", i),
			Email: fmt.Sprintf("customer%d@example.com", i),
		})
		if err != nil {
			t.Fatalf("failed to create customer %d: %v", i, err)
		}
		if seen[customer.ID] {
			t.Fatalf("duplicate id %s", customer.ID.String())
		}
		seen[customer.ID] = true
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	svc, dbConn := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:  "",
		Email: "ana@x.com",
	})
	if err != domain.ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	_, err = svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:  "Ana",
		Email: "   ",
	})
	if err != domain.ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	if count := countCustomers(t, dbConn); count != 0 {
		t.Fatalf("expected no customers inserted, got %d", count)
	}
}

func TestListCustomersInsertionOrder(t *testing.T) {
	svc, _ := newTestService(t)

	var created []snowflake.ID
	for i := 0; i < 5; i++ {
		customer, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
			Name:  fmt.Sprintf("Customer %d", i),
			Email: fmt.Sprintf("customer%d@example.com", i),
		})
		if err != nil {
			t.Fatalf("failed to create customer %d: %v", i, err)
		}
		created = append(created, customer.ID)
	}

	customers, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("failed to list customers: %v", err)
	}
	if len(customers) != len(created) {
		t.Fatalf("expected %d customers, got %d", len(created), len(customers))
	}
	for i, customer := range customers {
		if customer.ID != created[i] {
			t.Fatalf("expected customer %d to be %s, got %s", i, created[i], customer.ID)
		}
	}
}

func TestDeleteCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	customer, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:  "Ana",
		Email: "ana@x.com",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	if err := svc.Delete(context.Background(), domain.DeleteCustomerRequest{ID: customer.ID.String()}); err != nil {
		t.Fatalf("failed to delete customer: %v", err)
	}

	customers, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("failed to list customers: %v", err)
	}
	for _, item := range customers {
		if item.ID == customer.ID {
			t.Fatal("expected deleted customer to be gone")
		}
	}
}

func TestDeleteCustomerNotFound(t *testing.T) {
	svc, dbConn := newTestService(t)

	if _, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:  "Ana",
		Email: "ana@x.com",
	}); err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	unknown := node.Generate()

	if err := svc.Delete(context.Background(), domain.DeleteCustomerRequest{ID: unknown.String()}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if count := countCustomers(t, dbConn); count != 1 {
		t.Fatalf("expected stored set unchanged, got %d customers", count)
	}
}

func TestDeleteCustomerInvalidID(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.Delete(context.Background(), domain.DeleteCustomerRequest{ID: "not-a-number"}); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:  "Ana",
		Email: "ana@x.com",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	got, err := svc.GetByID(context.Background(), domain.GetCustomerRequest{ID: created.ID.String()})
	if err != nil {
		t.Fatalf("failed to get customer: %v", err)
	}
	if got.ID != created.ID || got.Name != "Ana" || got.Email != "ana@x.com" {
		t.Fatalf("unexpected customer %+v", got)
	}
}
