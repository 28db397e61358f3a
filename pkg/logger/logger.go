package logger

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DEBUG = iota
	INFO
	WARN
	ERROR
)

var LevelMap = map[int][]byte{
	DEBUG: []byte("DEBUG"),
	INFO:  []byte("INFO"),
	WARN:  []byte("WARN"),
	ERROR: []byte("ERROR"),
}

func ParseLogLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		panic(fmt.Sprintf("unknown log level: %v", level))
	}
}

var (
	LeftBracket  = []byte("[")
	RightBracket = []byte("]")
	Space        = []byte(" ")
	Colon        = []byte(":")
	LineFeed     = []byte("\n")
)

var (
	RED     = []byte{27, 91, 51, 49, 109}
	GREEN   = []byte{27, 91, 51, 50, 109}
	YELLOW  = []byte{27, 91, 51, 51, 109}
	BLUE    = []byte{27, 91, 51, 52, 109}
	MAGENTA = []byte{27, 91, 51, 53, 109}
	CYAN    = []byte{27, 91, 51, 54, 109}
	RESET   = []byte{27, 91, 48, 109}
)

var (
	LOG  *Logger = nil
	CONF *Config = nil
)

const (
	DefaultFileMaxSize = 10485760
	LogInfoChanSize    = 1000
)

type Config struct {
	AppName      string
	Level        int
	TrackLine    bool
	EnableFile   bool
	FileMaxSize  int32
	DisableColor bool
}

type Logger struct {
	LogFile     *os.File
	LogInfoChan chan *LogInfo
	CloseChan   chan struct{}
}

type LogInfo struct {
	Time      time.Time
	Level     int
	Msg       *[]byte
	FileName  string
	FuncName  string
	Line      int
	TrackLine bool
}

func InitLogger(config *Config) {
	LOG = new(Logger)

	if config == nil {
		config = &Config{
			AppName:      "application",
			Level:        DEBUG,
			TrackLine:    true,
			EnableFile:   false,
			FileMaxSize:  0,
			DisableColor: false,
		}
	}
	CONF = config
	if CONF.FileMaxSize == 0 {
		CONF.FileMaxSize = DefaultFileMaxSize
	}

	LOG.LogInfoChan = make(chan *LogInfo, LogInfoChanSize)
	LOG.CloseChan = make(chan struct{})
	go LOG.doLog()
}

func CloseLogger() {
	LOG.CloseChan <- struct{}{}
	<-LOG.CloseChan
}

func (l *Logger) doLog() {
	var logBuf bytes.Buffer
	timeBuf := make([]byte, 0, 64)
	exit := false
	exitCountDown := 0
	for {
		select {
		case <-l.CloseChan:
			exit = true
			exitCountDown = len(l.LogInfoChan)
		case logInfo := <-l.LogInfoChan:
			if !CONF.DisableColor {
				logBuf.Write(CYAN)
			}
			logBuf.Write(LeftBracket)
			logBuf.Write(logInfo.Time.AppendFormat(timeBuf, "2006-01-02 15:04:05.000"))
			logBuf.Write(RightBracket)
			if !CONF.DisableColor {
				logBuf.Write(RESET)
			}
			logBuf.Write(Space)

			if !CONF.DisableColor {
				switch logInfo.Level {
				case DEBUG:
					logBuf.Write(BLUE)
				case INFO:
					logBuf.Write(GREEN)
				case WARN:
					logBuf.Write(YELLOW)
				case ERROR:
					logBuf.Write(RED)
				}
			}
			logBuf.Write(LeftBracket)
			logBuf.Write(LevelMap[logInfo.Level])
			logBuf.Write(RightBracket)
			if !CONF.DisableColor {
				logBuf.Write(RESET)
			}
			logBuf.Write(Space)

			if !CONF.DisableColor && logInfo.Level == ERROR {
				logBuf.Write(RED)
				logBuf.Write(*logInfo.Msg)
				logBuf.Write(RESET)
			} else {
				logBuf.Write(*logInfo.Msg)
			}

			if logInfo.TrackLine {
				logBuf.Write(Space)
				if !CONF.DisableColor {
					logBuf.Write(MAGENTA)
				}
				logBuf.Write(LeftBracket)
				logBuf.Write([]byte(logInfo.FileName))
				logBuf.Write(Colon)
				logBuf.Write([]byte(strconv.Itoa(logInfo.Line)))
				logBuf.Write(Space)
				logBuf.Write([]byte(logInfo.FuncName))
				logBuf.Write(RightBracket)
				if !CONF.DisableColor {
					logBuf.Write(RESET)
				}
			}

			logBuf.Write(LineFeed)

			l.writeLog(logBuf.Bytes())
			putBuf(logInfo.Msg)
			logInfoPool.Put(logInfo)
			logBuf.Reset()
			timeBuf = timeBuf[0:0]
			if exit {
				exitCountDown--
			}
		}
		if exit && exitCountDown == 0 {
			LOG.CloseChan <- struct{}{}
			return
		}
	}
}

func (l *Logger) writeLog(logData []byte) {
	_, _ = os.Stderr.Write(logData)
	if CONF.EnableFile {
		l.writeLogFile(logData)
	}
}

func (l *Logger) writeLogFile(logData []byte) {
	fileName := "./log/" + CONF.AppName + ".log"
	if l.LogFile == nil {
		file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("open new log file error: %v\n", err))
			return
		}
		l.LogFile = file
	}
	fileStat, err := l.LogFile.Stat()
	if err != nil {
		_, _ = os.Stderr.WriteString(fmt.Sprintf("get log file stat error: %v\n", err))
		return
	}
	if fileStat.Size() >= int64(CONF.FileMaxSize) {
		err = l.LogFile.Close()
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("close old log file error: %v\n", err))
			return
		}
		timeStr := time.Now().Format("20060102150405")
		err = os.Rename(l.LogFile.Name(), l.LogFile.Name()+"."+timeStr+".log")
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("rename old log file error: %v\n", err))
			return
		}
		file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("open new log file error: %v\n", err))
			return
		}
		l.LogFile = file
	}
	_, err = l.LogFile.Write(logData)
	if err != nil {
		_, _ = os.Stderr.WriteString(fmt.Sprintf("write log file error: %v\n", err))
		return
	}
}

var bufPool = sync.Pool{New: func() any { return new([]byte) }}

func getBuf() *[]byte {
	p := bufPool.Get().(*[]byte)
	*p = (*p)[0:0]
	return p
}

func putBuf(p *[]byte) {
	if cap(*p) > 64<<10 {
		*p = nil
	}
	bufPool.Put(p)
}

var logInfoPool = sync.Pool{New: func() any { return new(LogInfo) }}

func formatLog(level int, msg string, param []any) {
	logInfo := logInfoPool.Get().(*LogInfo)
	logInfo.Time = time.Now()
	logInfo.Level = level
	buf := getBuf()
	*buf = fmt.Appendf(*buf, msg, param...)
	logInfo.Msg = buf
	logInfo.TrackLine = false
	if CONF.TrackLine {
		logInfo.FileName, logInfo.Line, logInfo.FuncName = LOG.getLineFunc()
		logInfo.TrackLine = true
	}
	LOG.LogInfoChan <- logInfo
}

func Debug(msg string, param ...any) {
	if CONF.Level > DEBUG {
		return
	}
	formatLog(DEBUG, msg, param)
}

func Info(msg string, param ...any) {
	if CONF.Level > INFO {
		return
	}
	formatLog(INFO, msg, param)
}

func Warn(msg string, param ...any) {
	if CONF.Level > WARN {
		return
	}
	formatLog(WARN, msg, param)
}

func Error(msg string, param ...any) {
	if CONF.Level > ERROR {
		return
	}
	formatLog(ERROR, msg, param)
}

func (l *Logger) getLineFunc() (fileName string, line int, funcName string) {
	var pc uintptr
	var file string
	var ok bool
	pc, file, line, ok = runtime.Caller(3)
	if !ok {
		return "???", -1, "???"
	}
	fileName = path.Base(file)
	funcName = runtime.FuncForPC(pc).Name()
	split := strings.Split(funcName, ".")
	if len(split) != 0 {
		funcName = split[len(split)-1]
	}
	return fileName, line, funcName
}

func Stack() string {
	buf := make([]byte, 1024)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}
