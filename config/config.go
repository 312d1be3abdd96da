package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseDSN string
	BaseURL     string // allowed CORS origin (admin dashboard)
	SiteBaseURL string // public storefront, used for links inside notification emails

	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	CloudinaryURL string

	AccessSecret string

	SMTPUser        string
	SMTPAppPassword string
	MailFrom        string
	MailFromName    string

	// account that backs the resume-service chat channel; falls back to the
	// earliest-created admin when empty or unknown
	ResumeInstructorEmail string

	SlipCheckAPIKey string

	AdminEmail    string
	AdminPassword string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	return Config{
		ServerPort:            os.Getenv("SERVER_PORT"),
		DatabaseDSN:           os.Getenv("DATABASE_DSN"),
		BaseURL:               os.Getenv("BASE_URL"),
		SiteBaseURL:           os.Getenv("SITE_BASE_URL"),
		KafkaBroker:           os.Getenv("KAFKA_BROKER"),
		KafkaTopic:            os.Getenv("KAFKA_TOPIC"),
		KafkaUsername:         os.Getenv("KAFKA_USERNAME"),
		KafkaPassword:         os.Getenv("KAFKA_PASSWORD"),
		CloudinaryURL:         os.Getenv("CLOUDINARY_URL"),
		AccessSecret:          os.Getenv("ACCESS_SECRET"),
		SMTPUser:              os.Getenv("SMTP_USER"),
		SMTPAppPassword:       os.Getenv("SMTP_APP_PASSWORD"),
		MailFrom:              os.Getenv("MAIL_FROM"),
		MailFromName:          os.Getenv("MAIL_FROM_NAME"),
		ResumeInstructorEmail: os.Getenv("RESUME_INSTRUCTOR_EMAIL"),
		SlipCheckAPIKey:       os.Getenv("SLIPCHECK_API_KEY"),
		AdminEmail:            os.Getenv("ADMIN_EMAIL"),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
	}
}
