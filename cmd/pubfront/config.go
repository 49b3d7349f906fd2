package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eringen/pubfront"
	"github.com/eringen/pubfront/content"
)

// newViper loads .env into the environment and reads an optional
// config.yaml. Environment variables win over the file.
func newViper() *viper.Viper {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, skipping")
	}
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("config.yaml: %v", err)
		}
	}
	return v
}

func loadConfig(v *viper.Viper) (pubfront.SiteConfig, error) {
	v.SetDefault("snapshot_path", "data/pages.db")

	cfg := pubfront.SiteConfig{
		Name:             v.GetString("site_name"),
		URL:              v.GetString("site_url"),
		Description:      v.GetString("site_description"),
		Author:           v.GetString("site_author"),
		Addr:             v.GetString("addr"),
		SnapshotPath:     v.GetString("snapshot_path"),
		SessionSecret:    v.GetString("session_secret"),
		CookieSecure:     v.GetBool("cookie_secure"),
		Revalidate:       time.Duration(v.GetInt("revalidate_seconds")) * time.Second,
		RevalidateSecret: v.GetString("revalidate_secret"),
		RefreshSchedule:  v.GetString("refresh_schedule"),
		Content: content.Config{
			ProjectID:  v.GetString("sanity_project_id"),
			Dataset:    v.GetString("sanity_dataset"),
			APIVersion: v.GetString("sanity_api_version"),
			UseCDN:     v.GetBool("sanity_use_cdn"),
			Token:      v.GetString("sanity_api_token"),
		},
	}
	if cfg.SessionSecret == "" {
		return cfg, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.Content.ProjectID == "" {
		return cfg, fmt.Errorf("SANITY_PROJECT_ID is required")
	}
	return cfg, nil
}
