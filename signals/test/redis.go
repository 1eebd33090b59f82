package test

import (
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	. "github.com/onsi/gomega"
)

var (
	server *miniredis.Miniredis
	client *redis.Client
)

// SetupRedis starts an in-memory redis server shared by the specs of the suite
func SetupRedis() {
	var err error
	server, err = miniredis.Run()
	Expect(err).ToNot(HaveOccurred())

	client = redis.NewClient(&redis.Options{
		Addr: server.Addr(),
	})
}

func TeardownRedis() {
	Expect(client).ToNot(BeNil())
	Expect(client.Close()).To(Succeed())
	server.Close()
	client = nil
	server = nil
}

func GetTestServer() *miniredis.Miniredis {
	Expect(server).ToNot(BeNil())
	return server
}

func GetTestClient() *redis.Client {
	Expect(client).ToNot(BeNil())
	return client
}
