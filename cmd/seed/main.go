package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"estatedesk/internal/app"
	"estatedesk/internal/config"
	"estatedesk/internal/database"
	"estatedesk/internal/domain/booking"
	"estatedesk/internal/domain/construction"
	"estatedesk/internal/domain/customer"
	"estatedesk/internal/domain/demanddraft"
	"estatedesk/internal/domain/inventory"
	"estatedesk/internal/domain/paymentplan"
	"estatedesk/internal/pkg/jwt"
	"estatedesk/internal/pkg/logger"
	"estatedesk/internal/schema"
)

const seedActor = 1

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "text").WithError(err).Fatal("config load failed")
	}
	log := logger.New(cfg.LogLevel, "text")
	if cfg.IsProdLike() {
		log.Fatal("refusing to seed a prod-like environment")
	}

	db, err := database.ConnectWithOptions(cfg.DatabaseURL, database.Options{Log: log})
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}

	log.Info("running AutoMigrate")
	if err := schema.AutoMigrateAll(db); err != nil {
		log.WithError(err).Fatal("AutoMigrate failed")
	}

	log.Info("cleaning old data")
	if err := clean(db); err != nil {
		log.WithError(err).Fatal("cleanup failed")
	}

	ctx := context.Background()
	a := app.New(cfg, db, log, nil)
	must := func(step string, err error) {
		if err != nil {
			log.WithError(err).Fatalf("seed %s failed", step)
		}
	}

	// ================== INVENTORY ==================
	property, err := a.Inventory.CreateProperty(ctx, &inventory.CreatePropertyRequest{
		Name: "Lakeview Residency", City: "Pune", Address: "Survey 42, Baner",
	}, seedActor)
	must("property", err)

	var flats []*inventory.Flat
	for _, towerName := range []string{"Tower A", "Tower B"} {
		tower, err := a.Inventory.CreateTower(ctx, &inventory.CreateTowerRequest{
			PropertyID: property.ID, Name: towerName, TotalFloors: 12,
		})
		must("tower", err)

		for floor := 1; floor <= 3; floor++ {
			for unit := 1; unit <= 2; unit++ {
				base := decimal.NewFromInt(int64(4200000 + floor*100000))
				total := base.Add(decimal.NewFromInt(350000))
				f, err := a.Inventory.CreateFlat(ctx, &inventory.CreateFlatRequest{
					PropertyID:       property.ID,
					TowerID:          tower.ID,
					FlatNumber:       fmt.Sprintf("%c-%d0%d", towerName[len(towerName)-1], floor, unit),
					Floor:            floor,
					Bedrooms:         2 + unit%2,
					BasePrice:        base,
					TotalPrice:       total,
					FinalPrice:       total,
					CarpetArea:       decimal.NewFromInt(850),
					BuiltUpArea:      decimal.NewFromInt(1020),
					SuperBuiltUpArea: decimal.NewFromInt(1250),
					Facing:           "EAST",
					Amenities:        []string{"clubhouse", "pool", "gym"},
					ParkingSlots:     1,
				})
				must("flat", err)
				flats = append(flats, f)
			}
		}
	}
	log.WithField("flats", len(flats)).Info("inventory created")

	// ================== CUSTOMERS ==================
	customers := customer.NewRepository(db)
	var custs []*customer.Customer
	for _, c := range []customer.Customer{
		{FullName: "Rohan Mehta", Email: "rohan.mehta@example.com", Phone: "+91 98200 11111"},
		{FullName: "Priya Kulkarni", Email: "priya.k@example.com", Phone: "+91 98200 22222"},
		{FullName: "Arjun Nair", Email: "arjun.nair@example.com", Phone: "+91 98200 33333"},
	} {
		c := c
		c.IsActive = true
		must("customer", customers.Create(ctx, &c))
		custs = append(custs, &c)
	}

	// ================== TEMPLATES ==================
	_, err = a.Plans.CreateTemplate(ctx, &paymentplan.CreateTemplateRequest{
		Name:      "Construction linked plan",
		PlanType:  "CLP",
		IsDefault: true,
		Milestones: []paymentplan.TemplateMilestone{
			{Sequence: 1, Name: "On booking", Percentage: decimal.NewFromInt(10)},
			{Sequence: 2, Name: "Agreement", Percentage: decimal.NewFromInt(10)},
			{Sequence: 3, Name: "Foundation", Percentage: decimal.NewFromInt(20), ConstructionPhase: construction.PhaseFoundation, PhasePercentage: decimal.NewFromInt(100)},
			{Sequence: 4, Name: "Structure", Percentage: decimal.NewFromInt(30), ConstructionPhase: construction.PhaseStructure, PhasePercentage: decimal.NewFromInt(50)},
			{Sequence: 5, Name: "Finishing", Percentage: decimal.NewFromInt(25), ConstructionPhase: construction.PhaseFinishing, PhasePercentage: decimal.NewFromInt(100)},
			{Sequence: 6, Name: "Possession", Percentage: decimal.NewFromInt(5)},
		},
	}, seedActor)
	must("payment plan template", err)

	_, err = a.Plans.CreateTemplate(ctx, &paymentplan.CreateTemplateRequest{
		Name:     "Down payment plan",
		PlanType: "DOWN_PAYMENT",
		Milestones: []paymentplan.TemplateMilestone{
			{Sequence: 1, Name: "Down payment", Percentage: decimal.NewFromInt(95)},
			{Sequence: 2, Name: "Possession", Percentage: decimal.NewFromInt(5)},
		},
	}, seedActor)
	must("payment plan template", err)

	_, err = a.DemandDrafts.CreateTemplate(ctx, &demanddraft.CreateTemplateRequest{
		Name:    "Standard demand letter",
		Subject: "Payment demand: {{milestone_name}} for flat {{flat_number}}",
		HTMLContent: "<p>Dear {{customer_name}},</p>" +
			"<p>Construction of {{property_name}}, {{tower_name}} has reached <b>{{milestone_name}}</b>.</p>" +
			"<p>Please pay {{amount}} ({{amount_in_words}}) by {{due_date}} against booking {{booking_number}}.</p>" +
			"<p>{{bank_name}}, A/c {{account_number}}, IFSC {{ifsc_code}}</p>",
	}, seedActor)
	must("demand draft template", err)

	// ================== BOOKINGS ==================
	for i, c := range custs[:2] {
		res, err := a.Bookings.CreateBooking(ctx, booking.CreateBookingInput{
			BookingNumber:   fmt.Sprintf("LV-2026-%04d", i+1),
			FlatID:          flats[i].ID,
			PropertyID:      property.ID,
			CustomerID:      c.ID,
			TotalAmount:     flats[i].FinalPrice,
			TokenAmount:     decimal.NewFromInt(200000),
			PaymentPlanType: "CLP",
			PaymentMode:     "NEFT",
			ActorID:         seedActor,
		})
		must("booking", err)
		log.WithFields(logrus.Fields{
			"booking": res.Booking.BookingNumber,
			"flat":    flats[i].FlatNumber,
			"plan":    res.Plan != nil,
		}).Info("booking created")
	}

	_, err = a.Construction.RecordProgress(ctx, construction.RecordProgressInput{
		FlatID: flats[0].ID, Phase: construction.PhaseFoundation, Percentage: decimal.NewFromInt(100), ActorID: seedActor,
	})
	must("construction progress", err)
	_, err = a.Construction.RecordProgress(ctx, construction.RecordProgressInput{
		FlatID: flats[1].ID, Phase: construction.PhaseFoundation, Percentage: decimal.NewFromInt(60), ActorID: seedActor,
	})
	must("construction progress", err)

	if err := a.Dispatcher.Wait(ctx); err != nil {
		log.WithError(err).Warn("pending notifications abandoned")
	}

	// ================== TOKENS ==================
	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	for id, role := range map[int64]string{1: jwt.RoleAdmin, 2: jwt.RoleAccounts, 3: jwt.RoleSales} {
		token, err := tokens.GenerateToken(id, role)
		must("token", err)
		fmt.Printf("%-8s user_id=%d token=%s\n", role, id, token)
	}

	log.Info("seed completed; flat A-101 has a foundation milestone ready for the sweep")
}

func clean(db *gorm.DB) error {
	for _, table := range []string{
		"notifications", "demand_drafts", "demand_draft_templates", "construction_flat_progress",
		"flat_payment_plans", "payment_plan_templates", "payment_schedules", "payments",
		"bookings", "customers", "flats", "towers", "properties",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}
	return nil
}
