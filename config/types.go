package config

type Config struct {
	Debug  bool   `mapstructure:"debug"`
	Server Server `mapstructure:"server"`
	Auth   Auth   `mapstructure:"auth"`
	Docs   Docs   `mapstructure:"docs"`
	Media  Media  `mapstructure:"media"`
}

type Server struct {
	Address   string       `mapstructure:"address" validate:"required,hostname|ip"`
	Port      int          `mapstructure:"port" validate:"required,min=1,max=65535"`
	PublicUrl string       `mapstructure:"public_url" validate:"required,url"`
	Limits    ServerLimits `mapstructure:"limits"`
}

type ServerLimits struct {
	MaxPayloadSize uint `mapstructure:"max_payload_size" validate:"required"`
	MaxFileSize    uint `mapstructure:"max_file_size" validate:"required"`
	MaxFileCount   uint `mapstructure:"max_file_count" validate:"required,max=1000"`
}

type Auth struct {
	Secret string `mapstructure:"secret" validate:"required,min=32"`
	Issuer string `mapstructure:"issuer"`
}

type Docs struct {
	Driver      string  `mapstructure:"driver" validate:"required,oneof=postgres mysql"`
	DSN         string  `mapstructure:"dsn" validate:"required"`
	TablePrefix *string `mapstructure:"table_prefix" validate:"omitempty,identifier"`
}

type Media struct {
	Strategy string `mapstructure:"strategy" validate:"required,oneof=s3 filesystem noop"`

	// Parts at or under this many bytes are embedded as data URLs instead of
	// going to the store. Zero means every part goes to the store.
	InlineMaxSize uint `mapstructure:"inline_max_size"`

	S3         *S3MediaStrategy         `mapstructure:"s3" validate:"required_if=Strategy s3"`
	Filesystem *FilesystemMediaStrategy `mapstructure:"filesystem" validate:"required_if=Strategy filesystem"`
}

type S3MediaStrategy struct {
	AccessKeyId    string `mapstructure:"access_key_id" validate:"required"`
	SecretKeyId    string `mapstructure:"secret_key_id" validate:"required"`
	Region         string `mapstructure:"region" validate:"required"`
	Bucket         string `mapstructure:"bucket" validate:"required"`
	Endpoint       string `mapstructure:"endpoint"`
	PublicBaseUrl  string `mapstructure:"public_base_url" validate:"omitempty,url"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

type FilesystemMediaStrategy struct {
	Path      string `mapstructure:"path" validate:"required,abspath"`
	PublicUrl string `mapstructure:"public_url" validate:"required,url"`
}
