package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	coreConfig "github.com/wadesk/wadesk/core/config"
	coreDB "github.com/wadesk/wadesk/core/database"
	domainCredential "github.com/wadesk/wadesk/domains/credential"
	domainCustomer "github.com/wadesk/wadesk/domains/customer"
	domainMessage "github.com/wadesk/wadesk/domains/message"
	domainSend "github.com/wadesk/wadesk/domains/send"
	domainTemplate "github.com/wadesk/wadesk/domains/template"
	domainWebhook "github.com/wadesk/wadesk/domains/webhook"
	"github.com/wadesk/wadesk/infrastructure/valkey"
	"github.com/wadesk/wadesk/infrastructure/whatsapp"
	"github.com/wadesk/wadesk/pkg/utils"
	"github.com/wadesk/wadesk/usecase"
	"gorm.io/gorm"
)

var (
	appDB *gorm.DB

	dedupClient *valkey.Client

	customerUsecase   domainCustomer.ICustomerUsecase
	messageUsecase    domainMessage.IMessageUsecase
	credentialUsecase domainCredential.ICredentialUsecase
	templateUsecase   domainTemplate.ITemplateUsecase
	webhookUsecase    domainWebhook.IWebhookUsecase
	sendUsecase       domainSend.ISendUsecase
)

var rootCmd = &cobra.Command{
	Use:   "wadesk",
	Short: "WhatsApp Cloud API customer support relay",
	Long: `Wadesk receives WhatsApp Cloud API webhooks, stores conversations per
customer and exposes a REST API for support dashboards and outbound sends.`,
}

func init() {
	utils.LoadEnv(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().String("port", "", "HTTP port to listen on")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

func initApp() {
	cfg, err := coreConfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("[INIT] failed to load configuration: %v", err)
	}

	if port, _ := rootCmd.PersistentFlags().GetString("port"); port != "" {
		cfg.App.Port = port
	}
	if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug || viper.GetBool("APP_DEBUG") {
		cfg.App.Debug = true
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := utils.CreateFolder(cfg.Paths.Storages, cfg.Paths.Statics, cfg.Paths.Media); err != nil {
		logrus.Fatalf("[INIT] failed to prepare directories: %v", err)
	}

	appDB, err = coreDB.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[INIT] failed to open database: %v", err)
	}

	if cfg.Dedup.Enabled {
		dedupClient, err = valkey.NewClient(cfg.Dedup)
		if err != nil {
			logrus.WithError(err).Warn("[INIT] dedup cache unavailable, relying on database uniqueness")
			dedupClient = nil
		}
	}

	customerUsecase = usecase.NewCustomerService(appDB)
	messageUsecase = usecase.NewMessageService(appDB)
	credentialUsecase = usecase.NewCredentialService(appDB, cfg)
	templateUsecase = usecase.NewTemplateService(appDB)

	mediaFetcher := whatsapp.NewFetcher(cfg, credentialUsecase, nil)
	waClient := whatsapp.NewClient(cfg.Whatsapp, credentialUsecase, nil)

	var deduper usecase.EventDeduper
	if dedupClient != nil {
		deduper = dedupClient
	}
	webhookUsecase = usecase.NewWebhookService(cfg.Whatsapp.VerifyToken, customerUsecase, messageUsecase, mediaFetcher, deduper)
	sendUsecase = usecase.NewSendService(waClient, customerUsecase, messageUsecase, templateUsecase)
}

// StopApp releases shared resources during shutdown.
func StopApp() {
	if dedupClient != nil {
		dedupClient.Close()
	}
	if appDB != nil {
		if sqlDB, err := appDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
