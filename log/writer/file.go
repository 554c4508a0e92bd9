package writer

import (
	"io"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateConfig 日志轮转配置（按大小轮转）
type RotateConfig struct {
	Filepath   string
	Filename   string
	FileExt    string
	MaxSize    int  // 单个日志文件最大大小(MB)
	MaxBackups int  // 保留的旧日志文件数量
	MaxAge     int  // 日志文件保留天数
	Compress   bool // 是否压缩旧日志文件
}

// File 创建文件输出 writer
func File(config RotateConfig) (io.Writer, error) {
	return &lumberjack.Logger{
		Filename:   config.fileFullPath(),
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}, nil
}

// fileFullPath 返回日志文件的完整路径
func (c *RotateConfig) fileFullPath() string {
	return filepath.Join(c.Filepath, c.Filename+"."+c.FileExt)
}
