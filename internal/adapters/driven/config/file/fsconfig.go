package file

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
)

// FileSystemConfig is the strongly-typed, validated form of the recognized
// configuration keys from §6, decoded from a TOML file's nested map by
// LoadFileSystemConfig.
type FileSystemConfig struct {
	StartPaths []string `mapstructure:"startPaths" validate:"required,min=1"`

	PushAcls               bool                 `mapstructure:"pushAcls"`
	MarkAllDocumentsPublic bool                 `mapstructure:"markAllDocumentsPublic"`
	SupportsInheritedAcls  bool                 `mapstructure:"supportsInheritedAcls"`
	SecurityLevel          domain.SecurityLevel `mapstructure:"aceSecurityLevel" validate:"omitempty,oneof=FILE SHARE FILEORSHARE FILEANDSHARE"`
	UserAclFormat          domain.AclFormat     `mapstructure:"userAclFormat"`
	GroupAclFormat         domain.AclFormat     `mapstructure:"groupAclFormat"`

	LastAccessResetFlagForSmb          bool `mapstructure:"lastAccessResetFlagForSmb"`
	LastAccessResetFlagForLocalWindows bool `mapstructure:"lastAccessResetFlagForLocalWindows"`

	IfModifiedSinceCushionMinutes int  `mapstructure:"ifModifiedSinceCushionMinutes" validate:"gte=0"`
	FullTraversalIntervalDays     int  `mapstructure:"fullTraversalIntervalDays"`
	ThreadPoolSize                int  `mapstructure:"threadPoolSize" validate:"gte=0"`
	UseAuthzOnAclError            bool `mapstructure:"useAuthzOnAclError"`

	Credentials CredentialsConfig `mapstructure:"credentials"`

	IncludePatterns []string `mapstructure:"includePatterns" validate:"required,min=1"`
	ExcludePatterns []string `mapstructure:"excludePatterns"`

	ScheduleRateDocsPerMinute int   `mapstructure:"scheduleRateDocsPerMinute" validate:"gte=0"`
	MaxDocumentSizeBytes      int64 `mapstructure:"maxDocumentSizeBytes" validate:"gte=0"`
}

// CredentialsConfig is the TOML shape of SMB authentication.
type CredentialsConfig struct {
	Domain   string `mapstructure:"domain"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// ToDomain converts the decoded credentials block to the core's
// Credentials value.
func (c CredentialsConfig) ToDomain() domain.Credentials {
	return domain.Credentials{Domain: c.Domain, User: c.User, Password: c.Password}
}

// LoadFileSystemConfig reads path as TOML into a nested map, decodes it into
// a FileSystemConfig via mapstructure (so nested TOML tables like
// [credentials] map onto struct fields with no manual flattening), and then
// validates it. This is the reference CLI's stand-in for the external
// FileSystemPropertyManager described in §6.
func LoadFileSystemConfig(path string) (*FileSystemConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var nested map[string]any
	if err := toml.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := defaultFileSystemConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build config decoder: %w", err)
	}
	if err := decoder.Decode(nested); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

func defaultFileSystemConfig() *FileSystemConfig {
	return &FileSystemConfig{
		SupportsInheritedAcls:         true,
		SecurityLevel:                 domain.SecurityLevelFile,
		UserAclFormat:                 domain.AclFormatUser,
		GroupAclFormat:                domain.AclFormatGroup,
		IfModifiedSinceCushionMinutes: 60,
		FullTraversalIntervalDays:     -1,
		ThreadPoolSize:                10,
		IncludePatterns:               []string{"/"},
	}
}
