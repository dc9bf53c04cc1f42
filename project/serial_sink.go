package project

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"rotaxis/common/logger"
	"strings"
	"time"

	"github.com/tarm/serial"
)

const (
	SERIAL_READ_TIMEOUT = 100 * time.Millisecond
	SERIAL_ACK_TIMEOUT  = 30 * time.Second
)

const (
	OPEN_SERIAL_DEV_ERROR  = "Unable to open serial port"
	NOT_FOUND_SERIAL_ERROR = "Not found serial port"
	ACK_TIMEOUT_ERROR      = "Timeout waiting for controller ok"
)

// SerialSink streams G-code to a controller one line at a time. Comments
// and blank lines are not sent. With ack enabled every line waits for the
// controller's "ok" before the next one goes out.
type SerialSink struct {
	port       io.ReadWriteCloser
	reader     *bufio.Reader
	pending    []byte
	waitAck    bool
	ackTimeout time.Duration
	sent       int
}

func OpenSerialSink(name string, baud int, waitAck bool) (*SerialSink, error) {
	if info, err := os.Stat(name); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%s %s", NOT_FOUND_SERIAL_ERROR, name)
	}
	cfg := &serial.Config{Name: name, Baud: baud, ReadTimeout: SERIAL_READ_TIMEOUT}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		logger.Errorf("%s %s: %s", OPEN_SERIAL_DEV_ERROR, name, err)
		return nil, fmt.Errorf("%s %s: %w", OPEN_SERIAL_DEV_ERROR, name, err)
	}
	logger.Infof("streaming to %s at %d baud", name, baud)
	return NewSerialSink(port, waitAck), nil
}

func NewSerialSink(port io.ReadWriteCloser, waitAck bool) *SerialSink {
	return &SerialSink{
		port:       port,
		reader:     bufio.NewReader(port),
		waitAck:    waitAck,
		ackTimeout: SERIAL_ACK_TIMEOUT,
	}
}

func (self *SerialSink) Write(p []byte) (int, error) {
	self.pending = append(self.pending, p...)
	for {
		i := bytes.IndexByte(self.pending, '\n')
		if i < 0 {
			break
		}
		line := string(self.pending[:i])
		self.pending = self.pending[i+1:]
		if err := self.send(line); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Close sends any unterminated tail and closes the port.
func (self *SerialSink) Close() error {
	var err error
	if len(self.pending) > 0 {
		err = self.send(string(self.pending))
		self.pending = nil
	}
	if cerr := self.port.Close(); err == nil {
		err = cerr
	}
	return err
}

func (self *SerialSink) Sent() int {
	return self.sent
}

func (self *SerialSink) send(line string) error {
	code := strings.TrimSpace(stripComment(line))
	if code == "" {
		return nil
	}
	if _, err := self.port.Write([]byte(code + "\n")); err != nil {
		return fmt.Errorf("serial write %q: %w", code, err)
	}
	self.sent++
	if !self.waitAck {
		return nil
	}
	return self.readAck(code)
}

func (self *SerialSink) readAck(code string) error {
	deadline := time.Now().Add(self.ackTimeout)
	var partial string
	for {
		text, err := self.reader.ReadString('\n')
		partial += text
		if err == nil {
			reply := strings.TrimSpace(partial)
			partial = ""
			switch {
			case strings.HasPrefix(reply, "ok"):
				return nil
			case strings.HasPrefix(reply, "error"), strings.HasPrefix(reply, "!!"):
				return fmt.Errorf("controller rejected %q: %s", code, reply)
			case reply != "":
				logger.Debugf("controller: %s", reply)
			}
			continue
		}
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrNoProgress) {
			return fmt.Errorf("serial read: %w", err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%s after %q", ACK_TIMEOUT_ERROR, code)
		}
	}
}
