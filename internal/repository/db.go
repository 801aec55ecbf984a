package repository

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"qlink-go/internal/model"
	"qlink-go/pkg/logging"
)

// InitDB 建立数据库连接并执行迁移。
// TranslateError 开启后，唯一索引冲突会转换为 gorm.ErrDuplicatedKey，
// 别名的原子 check-and-insert 依赖这一行为。
func InitDB(logger *zap.Logger, atomicLogLevel zap.AtomicLevel) *gorm.DB {
	dsn := viper.GetString("db.dsn")
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logging.NewGormLogger(logger, logging.ToGormLogLevel(atomicLogLevel.Level())),
		TranslateError: true,
	})
	if err != nil {
		logging.Logger.Fatal("Failed to connect database", zap.Error(err))
	}

	err = db.AutoMigrate(&model.User{}, &model.Link{}, &model.ClickEvent{}, &model.DailyStat{})
	if err != nil {
		logging.Logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	return db
}
