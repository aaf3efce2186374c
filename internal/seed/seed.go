// Package seed bootstraps a demo dataset for local development.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	assignmentdomain "github.com/localgov-gh/revhub/internal/assignment/domain"
	auditdomain "github.com/localgov-gh/revhub/internal/audit/domain"
	businessdomain "github.com/localgov-gh/revhub/internal/business/domain"
	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
	"github.com/localgov-gh/revhub/internal/principal"
	revenuedomain "github.com/localgov-gh/revhub/internal/revenue/domain"
	userdomain "github.com/localgov-gh/revhub/internal/user/domain"
)

// EnsureDemoData seeds a small Greater Accra dataset when the database is
// empty. It is a no-op when any district already exists, so repeated
// startups never duplicate rows.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&districtdomain.District{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return insertDemoData(ctx, tx, node)
	})
}

func insertDemoData(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	juneFirst := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	juneTenth := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	juneFifteenth := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	districts := []districtdomain.District{
		{
			ID:              node.Generate(),
			Name:            "Accra Metropolitan",
			Code:            "DST-0001",
			Region:          "Greater Accra",
			Status:          districtdomain.DistrictStatusActive,
			AdminName:       "Admin User",
			AdminEmail:      "info@ama.gov.gh",
			Phone:           "+233302123456",
			TotalRevenue:    50000,
			TotalBusinesses: 2,
			TotalUsers:      2,
			CreatedDate:     created,
		},
		{
			ID:              node.Generate(),
			Name:            "Tema Metropolitan",
			Code:            "DST-0002",
			Region:          "Greater Accra",
			Status:          districtdomain.DistrictStatusActive,
			AdminEmail:      "info@tma.gov.gh",
			Phone:           "+233303123456",
			TotalRevenue:    80000,
			TotalBusinesses: 1,
			CreatedDate:     created,
		},
	}
	if err := tx.WithContext(ctx).Create(&districts).Error; err != nil {
		return err
	}

	revenueTypes := []revenuedomain.RevenueType{
		{
			ID:            node.Generate(),
			Code:          "RT-101",
			Name:          "Business Operating Permit",
			DefaultAmount: 50000,
			Frequency:     revenuedomain.FrequencyYearly,
			Description:   "Annual permit for business operation",
			Category:      "permit",
			IsActive:      true,
		},
		{
			ID:            node.Generate(),
			Code:          "RT-102",
			Name:          "Signage Fee",
			DefaultAmount: 30000,
			Frequency:     revenuedomain.FrequencyYearly,
			Description:   "Fee for business signage",
			Category:      "fee",
			IsActive:      true,
		},
	}
	if err := tx.WithContext(ctx).Create(&revenueTypes).Error; err != nil {
		return err
	}

	bakeryPaid := juneFirst
	hardwarePaid := juneTenth
	businesses := []businessdomain.Business{
		{
			ID:               node.Generate(),
			BusinessCode:     "BUS-100001",
			Name:             "Accra Bakery",
			OwnerName:        "Ama Mensah",
			Category:         "Bakery",
			Phone:            "0244000001",
			Status:           businessdomain.BusinessStatusActive,
			RegistrationDate: created,
			LastPayment:      &bakeryPaid,
			BusinessLicense:  "LIC-001",
			TINNumber:        "TIN-001",
			District:         "Accra Metropolitan",
		},
		{
			ID:               node.Generate(),
			BusinessCode:     "BUS-100002",
			Name:             "Tema Hardware",
			OwnerName:        "Kwesi Boateng",
			Category:         "Hardware",
			Phone:            "0244000002",
			Status:           businessdomain.BusinessStatusActive,
			RegistrationDate: created,
			LastPayment:      &hardwarePaid,
			BusinessLicense:  "LIC-002",
			TINNumber:        "TIN-002",
			District:         "Tema Metropolitan",
		},
		{
			ID:               node.Generate(),
			BusinessCode:     "BUS-100003",
			Name:             "Osu Boutique",
			OwnerName:        "Efua Asante",
			Category:         "Fashion",
			Phone:            "0244000003",
			Status:           businessdomain.BusinessStatusPending,
			RegistrationDate: time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
			TINNumber:        "TIN-003",
			District:         "Accra Metropolitan",
		},
	}
	if err := tx.WithContext(ctx).Create(&businesses).Error; err != nil {
		return err
	}

	collector := userdomain.SystemUser{
		ID:          node.Generate(),
		Name:        "John Doe",
		Email:       "john@example.com",
		Role:        string(principal.RoleCollector),
		District:    "Accra Metropolitan",
		Phone:       "0244000005",
		Status:      userdomain.UserStatusActive,
		Permissions: datatypes.NewJSONSlice(principal.DefaultPermissions(principal.RoleCollector)),
		CreatedDate: created,
	}
	admin := userdomain.SystemUser{
		ID:          node.Generate(),
		Name:        "Admin User",
		Email:       "admin@example.com",
		Role:        string(principal.RoleDistrictAdmin),
		District:    "Accra Metropolitan",
		Phone:       "0244000006",
		Status:      userdomain.UserStatusActive,
		Permissions: datatypes.NewJSONSlice(principal.DefaultPermissions(principal.RoleDistrictAdmin)),
		CreatedDate: created,
	}
	if err := tx.WithContext(ctx).Create(&[]userdomain.SystemUser{collector, admin}).Error; err != nil {
		return err
	}
	collectorID := collector.ID.String()

	collections := []collectiondomain.Collection{
		{
			ID:            node.Generate(),
			ReceiptCode:   "RCP-2024-1001",
			BusinessID:    businesses[0].ID,
			RevenueTypeID: revenueTypes[0].ID,
			CollectorID:   collectorID,
			Amount:        50000,
			PaymentMethod: collectiondomain.PaymentMethodCash,
			Date:          juneFirst,
			Status:        collectiondomain.CollectionStatusPaid,
			District:      "Accra Metropolitan",
			OwnerName:     "Ama Mensah",
			Notes:         "June payment",
		},
		{
			ID:            node.Generate(),
			ReceiptCode:   "RCP-2024-1002",
			BusinessID:    businesses[1].ID,
			RevenueTypeID: revenueTypes[1].ID,
			CollectorID:   collectorID,
			Amount:        80000,
			PaymentMethod: collectiondomain.PaymentMethodMomo,
			Date:          juneTenth,
			Status:        collectiondomain.CollectionStatusPaid,
			District:      "Tema Metropolitan",
			OwnerName:     "Kwesi Boateng",
			Notes:         "June payment",
		},
		{
			ID:            node.Generate(),
			ReceiptCode:   "RCP-2024-1003",
			BusinessID:    businesses[2].ID,
			RevenueTypeID: revenueTypes[0].ID,
			CollectorID:   collectorID,
			Amount:        50000,
			PaymentMethod: collectiondomain.PaymentMethodCash,
			Date:          juneFifteenth,
			Status:        collectiondomain.CollectionStatusPending,
			District:      "Accra Metropolitan",
			OwnerName:     "Efua Asante",
			Notes:         "Pending payment",
		},
	}
	if err := tx.WithContext(ctx).Create(&collections).Error; err != nil {
		return err
	}

	assignments := []assignmentdomain.Assignment{
		{
			ID:             node.Generate(),
			AssignmentCode: "ASN-000001",
			CollectorID:    collectorID,
			BusinessID:     businesses[0].ID,
			Zone:           "Zone A",
			StartDate:      juneFirst,
			IsActive:       true,
			AssignedBy:     admin.ID.String(),
			District:       "Accra Metropolitan",
		},
		{
			ID:             node.Generate(),
			AssignmentCode: "ASN-000002",
			CollectorID:    collectorID,
			BusinessID:     businesses[1].ID,
			Zone:           "Zone B",
			StartDate:      juneFirst,
			IsActive:       true,
			AssignedBy:     admin.ID.String(),
			District:       "Tema Metropolitan",
		},
	}
	if err := tx.WithContext(ctx).Create(&assignments).Error; err != nil {
		return err
	}

	audits := []auditdomain.AuditLog{
		{
			ID:         node.Generate(),
			UserID:     collectorID,
			UserName:   "John Doe",
			UserRole:   string(principal.RoleCollector),
			Action:     "Collection recorded",
			Details:    "Payment collected from Accra Bakery",
			EntityType: auditdomain.EntityTypePayment,
			EntityID:   collections[0].ID.String(),
			District:   "Accra Metropolitan",
			IPAddress:  "192.168.1.1",
			Metadata:   datatypes.JSONMap{},
			CreatedAt:  juneFirst.Add(10 * time.Hour),
		},
		{
			ID:         node.Generate(),
			UserID:     admin.ID.String(),
			UserName:   "Admin User",
			UserRole:   string(principal.RoleDistrictAdmin),
			Action:     "Business registered",
			Details:    "New business Osu Boutique registered",
			EntityType: auditdomain.EntityTypeBusiness,
			EntityID:   businesses[2].ID.String(),
			District:   "Accra Metropolitan",
			IPAddress:  "192.168.1.2",
			Metadata:   datatypes.JSONMap{},
			CreatedAt:  time.Date(2024, time.March, 20, 14, 30, 0, 0, time.UTC),
		},
	}
	return tx.WithContext(ctx).Create(&audits).Error
}
