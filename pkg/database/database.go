package database

import (
	"fmt"
	"log"

	"opsnexus_backend/internal/config"
	"opsnexus_backend/pkg/recordstore"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// 集合内容都以 JSON 文本存进 slots 表，一个集合一行
	if err := db.AutoMigrate(&recordstore.Slot{}); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
