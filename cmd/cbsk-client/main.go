// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/tcpframe/cbsk/socket"
	"github.com/tcpframe/cbsk/socket/client"
)

// VERSION is injected by buildflags
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		// add more log flags for debugging
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "cbsk-client"
	myApp.Usage = "cbsk length-prefixed TCP framing client"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Value: "cbsk-client",
			Usage: "client name, used only for logging",
		},
		cli.StringFlag{
			Name:  "addr, a",
			Value: "127.0.0.1:9000",
			Usage: "server address to connect to",
		},
		cli.IntFlag{
			Name:  "conn-timeout",
			Value: 10,
			Usage: "seconds to wait for a dial to succeed",
		},
		cli.IntFlag{
			Name:  "read-timeout",
			Value: 1,
			Usage: "seconds per read deadline; the watchdog drops a connection idle for longer than this plus one second",
		},
		cli.IntFlag{
			Name:  "buf-len",
			Value: 1024,
			Usage: "read buffer size in bytes",
		},
		cli.BoolTFlag{
			Name:  "re-conn",
			Usage: "reconnect automatically when the server connection drops",
		},
		cli.IntFlag{
			Name:  "re-conn-delay",
			Value: 3,
			Usage: "seconds to wait between reconnection attempts",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "specify a log file to output, default goes to stderr",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "", // when the value is not empty, the config path must exist
			Usage: "config from json file, which will override the command from shell",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		config := Config{}
		config.Name = c.String("name")
		config.Addr = c.String("addr")
		config.ConnTimeout = c.Int("conn-timeout")
		config.ReadTimeout = c.Int("read-timeout")
		config.BufLen = c.Int("buf-len")
		config.ReConn = c.BoolT("re-conn")
		config.ReConnDelay = c.Int("re-conn-delay")
		config.Debug = c.Bool("debug")
		config.Log = c.String("log")

		if c.String("c") != "" {
			err := parseJSONConfig(&config, c.String("c"))
			checkError(err)
		}

		// log redirect
		if config.Log != "" {
			f, err := os.OpenFile(config.Log, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			checkError(err)
			defer f.Close()
			log.SetOutput(f)
		}

		if config.ReConnDelay <= 0 {
			color.Red("WARNING: re-conn-delay %d is non-positive, falling back to 3 seconds", config.ReConnDelay)
			config.ReConnDelay = 3
		}

		log.Println("version:", VERSION)
		log.Println("name:", config.Name)
		log.Println("addr:", config.Addr)
		log.Println("conn-timeout:", config.ConnTimeout)
		log.Println("read-timeout:", config.ReadTimeout)
		log.Println("buf-len:", config.BufLen)
		log.Println("re-conn:", config.ReConn, "delay:", config.ReConnDelay)
		log.Println("debug:", config.Debug)

		opts := []socket.ClientOption{
			socket.WithConnTimeout(time.Duration(config.ConnTimeout) * time.Second),
			socket.WithReadTimeout(time.Duration(config.ReadTimeout) * time.Second),
			socket.WithBufLen(config.BufLen),
			socket.WithClientLogger(socket.NewStdLogger(config.Debug)),
		}
		if config.ReConn {
			opts = append(opts, socket.WithReConn(socket.EnableReConn(time.Duration(config.ReConnDelay)*time.Second)))
		} else {
			opts = append(opts, socket.WithReConn(socket.ReConn{Enable: false}))
		}
		conf := socket.NewClientConfig(config.Name, config.Addr, opts...)

		cc := client.New(conf, &stdinCallback{})
		go stdinLoop(cc)
		cc.Start()
		return nil
	}
	myApp.Run(os.Args)
}

// stdinCallback logs connection events to the standard logger, prints
// received frames to stdout, and is the default callback for the demo
// binary.
type stdinCallback struct {
	client.NopCallback
}

func (stdinCallback) Conn()    { log.Println("connected") }
func (stdinCallback) DisConn() { log.Println("disconnected") }
func (stdinCallback) ReConn(attempt int) {
	log.Println("reconnecting, attempt:", attempt)
}
func (stdinCallback) Recv(data []byte) {
	fmt.Printf("recv: %s\n", data)
}

// stdinLoop reads lines from stdin and forwards each as a text frame,
// letting a human drive the demo client interactively.
func stdinLoop(c *client.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		c.SendText(line)
	}
}

func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(-1)
	}
}
