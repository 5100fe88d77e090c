package config

// ProviderKind identifies an image storage backend.
type ProviderKind string

const (
	ProviderLocal ProviderKind = "local"
	ProviderS3    ProviderKind = "s3"
)

// Config is the top-level cardkeep configuration, corresponding to
// cardkeep.yml.
type Config struct {
	Port           int          `yaml:"port" koanf:"port"`
	DataDir        string       `yaml:"data_dir" koanf:"data_dir"`
	StaticDir      string       `yaml:"static_dir" koanf:"static_dir"`
	ImagesDir      string       `yaml:"images_dir" koanf:"images_dir"`
	ImagesProvider ProviderKind `yaml:"images_provider" koanf:"images_provider"`
	CORSAllowAll   bool         `yaml:"cors_allow_all" koanf:"cors_allow_all"`
	S3             S3Config     `yaml:"s3" koanf:"s3"`
}

// S3Config holds the remote image store settings. Credentials may be left
// empty to use the ambient AWS credential chain.
type S3Config struct {
	Bucket          string `yaml:"bucket" koanf:"bucket"`
	Region          string `yaml:"region" koanf:"region"`
	Prefix          string `yaml:"prefix" koanf:"prefix"`
	AccessKeyID     string `yaml:"access_key_id" koanf:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" koanf:"secret_access_key"`
}
