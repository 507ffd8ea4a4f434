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
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/tcpframe/cbsk/socket"
	"github.com/tcpframe/cbsk/socket/server"
)

// VERSION is injected by buildflags
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		// add more log flags for debugging
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "cbsk-server"
	myApp.Usage = "cbsk length-prefixed TCP framing server"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Value: "cbsk-server",
			Usage: "server name, used only for logging",
		},
		cli.StringFlag{
			Name:  "addr, a",
			Value: ":9000",
			Usage: "listen address",
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
			Name:  "log",
			Usage: "log connect/disconnect events per client",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "log-file",
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
		config.ReadTimeout = c.Int("read-timeout")
		config.BufLen = c.Int("buf-len")
		config.Log = c.BoolT("log")
		config.Debug = c.Bool("debug")
		config.LogFile = c.String("log-file")

		if c.String("c") != "" {
			err := parseJSONConfig(&config, c.String("c"))
			checkError(err)
		}

		// log redirect
		if config.LogFile != "" {
			f, err := os.OpenFile(config.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			checkError(err)
			defer f.Close()
			log.SetOutput(f)
		}

		log.Println("version:", VERSION)
		log.Println("name:", config.Name)
		log.Println("addr:", config.Addr)
		log.Println("read-timeout:", config.ReadTimeout)
		log.Println("buf-len:", config.BufLen)
		log.Println("log:", config.Log)
		log.Println("debug:", config.Debug)

		conf := socket.NewServerConfig(config.Name, config.Addr,
			socket.WithServerReadTimeout(time.Duration(config.ReadTimeout)*time.Second),
			socket.WithServerBufLen(config.BufLen),
			socket.WithServerLog(config.Log),
			socket.WithServerLogger(socket.NewStdLogger(config.Debug)),
		)

		srv := server.New(conf, &echoCallback{})
		return srv.Serve()
	}
	myApp.Run(os.Args)
}

// echoCallback sends every received frame straight back to its sender and
// is the default callback for the demo binary.
type echoCallback struct {
	server.NopCallback
}

func (echoCallback) Conn(c *server.Client)    { log.Println("client connected:", c.Addr) }
func (echoCallback) DisConn(c *server.Client) { log.Println("client disconnected:", c.Addr) }
func (echoCallback) Recv(data []byte, c *server.Client) {
	fmt.Printf("recv from %s: %s\n", c.Addr, data)
	c.SendBytes(data)
}

func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(-1)
	}
}
