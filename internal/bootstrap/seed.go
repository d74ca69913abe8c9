package bootstrap

import (
	"log"

	"anoa.com/fitmentor/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.CreditBalance{},
		&model.LedgerEntry{},
		&model.Plan{},
		&model.AchievementDefinition{},
		&model.ActionCounter{},
		&model.AchievementUnlock{},
		&model.CheckinEvent{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: model.RoleStudent, Description: "Student following plans"},
		{Name: model.RoleProfessor, Description: "Fitness professional"},
		{Name: model.RoleManager, Description: "Gym or studio manager"},
		{Name: model.RoleAdmin, Description: "Super administrator"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAchievementCatalog installs the static threshold definitions. Existing
// rows are left untouched so unlock references stay valid.
func SeedAchievementCatalog(db *gorm.DB) error {
	catalog := []model.AchievementDefinition{
		{Code: "first_workout", Title: "First Workout Plan", CriteriaType: model.ActionWorkoutGenerated, Threshold: 1, IconKey: "dumbbell-bronze"},
		{Code: "workout_10", Title: "Workout Architect", CriteriaType: model.ActionWorkoutGenerated, Threshold: 10, IconKey: "dumbbell-silver"},
		{Code: "workout_50", Title: "Workout Machine", CriteriaType: model.ActionWorkoutGenerated, Threshold: 50, IconKey: "dumbbell-gold"},
		{Code: "first_diet", Title: "First Diet Plan", CriteriaType: model.ActionDietGenerated, Threshold: 1, IconKey: "apple-bronze"},
		{Code: "diet_10", Title: "Nutrition Planner", CriteriaType: model.ActionDietGenerated, Threshold: 10, IconKey: "apple-silver"},
		{Code: "first_student", Title: "First Student", CriteriaType: model.ActionStudentCreated, Threshold: 1, IconKey: "people-bronze"},
		{Code: "students_5", Title: "Growing Roster", CriteriaType: model.ActionStudentCreated, Threshold: 5, IconKey: "people-silver"},
		{Code: "students_25", Title: "Full House", CriteriaType: model.ActionStudentCreated, Threshold: 25, IconKey: "people-gold"},
		{Code: "first_analysis", Title: "First Assessment", CriteriaType: model.ActionAnalysisPerformed, Threshold: 1, IconKey: "chart-bronze"},
		{Code: "analyses_10", Title: "Data Driven", CriteriaType: model.ActionAnalysisPerformed, Threshold: 10, IconKey: "chart-silver"},
		{Code: "first_checkin", Title: "First Check-in", CriteriaType: model.ActionCheckinRecorded, Threshold: 1, IconKey: "flame-bronze"},
		{Code: "checkins_30", Title: "Consistency", CriteriaType: model.ActionCheckinRecorded, Threshold: 30, IconKey: "flame-silver"},
		{Code: "checkins_100", Title: "Unstoppable", CriteriaType: model.ActionCheckinRecorded, Threshold: 100, IconKey: "flame-gold"},
	}

	for _, def := range catalog {
		var count int64
		if err := db.Model(&model.AchievementDefinition{}).
			Where("code = ?", def.Code).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&def).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@fitmentor.app").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Name:         "Administrator",
		Email:        "admin@fitmentor.app",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	if err := db.Create(&model.CreditBalance{ActorID: adminUser.ID}).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Println("   Email: admin@fitmentor.app")
	log.Println("   Password: admin123")

	return nil
}
