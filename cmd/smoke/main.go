package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

type smokeClient struct {
	baseURL string
	http    *http.Client
}

func (c *smokeClient) send(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp, body, err
}

func (c *smokeClient) upload(path string) (*http.Response, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("resume", filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/roast/v1/upload", buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req)
}

func (c *smokeClient) call(method, path string) (*http.Response, []byte, error) {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	return c.send(req)
}

func step(title string, resp *http.Response, body []byte, err error) {
	color.Yellow("\n%s", title)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
		prettyPrint(body)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000/api", "API base URL")
	paid := flag.Bool("paid", false, "also request the premium view")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: smoke [-url URL] [-paid] resume.pdf")
		os.Exit(2)
	}

	jar, _ := cookiejar.New(nil)
	client := &smokeClient{
		baseURL: *baseURL,
		http:    &http.Client{Jar: jar, Timeout: 5 * time.Minute},
	}

	color.Cyan("🔥 Resume Roaster smoke test against %s\n", *baseURL)

	resp, body, err := client.upload(flag.Arg(0))
	step("1. Upload resume", resp, body, err)

	resp, body, err = client.call(http.MethodPost, "/roast/v1/critique")
	step("2. Roast it", resp, body, err)

	resp, body, err = client.call(http.MethodGet, "/roast/v1/view")
	step("3. Locked view", resp, body, err)

	if *paid {
		resp, body, err = client.call(http.MethodGet, "/roast/v1/view?paid=true")
		step("4. Premium view", resp, body, err)
	}

	color.Cyan("\n✅ Smoke test finished")
}
