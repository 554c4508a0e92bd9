package log

import (
	"github.com/kochabx/flowclient/log/writer"
)

// FileConfig 日志文件配置
type FileConfig struct {
	Filepath   string `json:"filepath"`
	Filename   string `json:"filename"`
	FileExt    string `json:"file_ext"`
	MaxSize    int    `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int    `json:"max_backups"` // 保留的旧日志文件数量
	MaxAge     int    `json:"max_age"`     // 日志文件保留天数
	Compress   bool   `json:"compress"`    // 是否压缩旧日志文件
}

// applyDefaults 填充缺省配置
func (c *FileConfig) applyDefaults() {
	if c.Filepath == "" {
		c.Filepath = "log"
	}
	if c.Filename == "" {
		c.Filename = "flowclient"
	}
	if c.FileExt == "" {
		c.FileExt = "log"
	}
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 5
	}
	if c.MaxAge == 0 {
		c.MaxAge = 30
	}
}

// toWriterConfig 转换为 writer.RotateConfig
func (c *FileConfig) toWriterConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Filepath:   c.Filepath,
		Filename:   c.Filename,
		FileExt:    c.FileExt,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
}
