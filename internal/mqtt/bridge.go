package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/gateway"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Bridge menghubungkan broker MQTT ke gateway adapter. Bentuk topic:
//
//	<prefix>/<deviceKey>/<action>/request   (inbound, dari device)
//	<prefix>/<deviceKey>/<action>/response  (outbound, dari server)
//
// Satu pesan = satu goroutine; pesan yang gagal diproses dicatat di log
// dan tidak mengganggu pesan lain.
type Bridge struct {
	client  paho.Client
	adapter *gateway.Adapter
	prefix  string
}

const (
	qosAtLeastOnce    = 1
	connectTimeout    = 10 * time.Second
	disconnectQuiesce = 250 // ms, untuk paho Disconnect
)

func NewBridge(cfg *config.Config, adapter *gateway.Adapter) *Bridge {
	b := &Bridge{adapter: adapter, prefix: cfg.MQTTPrefix}

	opts := paho.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetUsername(cfg.MQTTUsername).
		SetPassword(cfg.MQTTPassword).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: koneksi putus: %v", err)
		}).
		SetOnConnectHandler(func(c paho.Client) {
			// Re-subscribe tiap kali connect/reconnect
			filter := b.prefix + "/+/+/request"
			if token := c.Subscribe(filter, qosAtLeastOnce, b.onMessage); token.Wait() && token.Error() != nil {
				log.Printf("mqtt: gagal subscribe %s: %v", filter, token.Error())
				return
			}
			log.Printf("mqtt: subscribe %s", filter)
		})

	b.client = paho.NewClient(opts)
	return b
}

func (b *Bridge) Start() error {
	token := b.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt: timeout koneksi ke broker")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: gagal koneksi ke broker: %w", err)
	}
	return nil
}

func (b *Bridge) Stop() {
	b.client.Disconnect(disconnectQuiesce)
}

func (b *Bridge) onMessage(_ paho.Client, msg paho.Message) {
	topic := msg.Topic()
	payload := msg.Payload()
	go b.process(topic, payload)
}

func (b *Bridge) process(topic string, payload []byte) {
	// Panic satu pesan tidak boleh menjatuhkan bridge
	defer func() {
		if r := recover(); r != nil {
			log.Printf("mqtt: panic memproses %s: %v", topic, r)
		}
	}()

	deviceKey, action, err := ParseTopic(b.prefix, topic)
	if err != nil {
		log.Printf("mqtt: topic tidak dikenal %s: %v", topic, err)
		return
	}

	resp, _ := b.adapter.Handle(action, deviceKey, payload)
	body, err := json.Marshal(resp)
	if err != nil {
		log.Printf("mqtt: gagal marshal respons %s: %v", topic, err)
		return
	}

	respTopic := ResponseTopic(b.prefix, deviceKey, action)
	if token := b.client.Publish(respTopic, qosAtLeastOnce, false, body); token.Wait() && token.Error() != nil {
		log.Printf("mqtt: gagal publish ke %s: %v", respTopic, token.Error())
	}
}

// ParseTopic membongkar <prefix>/<deviceKey>/<action>/request.
func ParseTopic(prefix, topic string) (deviceKey, action string, err error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != prefix || parts[3] != "request" {
		return "", "", fmt.Errorf("bentuk topic tidak sesuai: %s", topic)
	}
	if parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("device key / action kosong di topic: %s", topic)
	}
	return parts[1], parts[2], nil
}

// ResponseTopic menyusun topic balasan deterministik per device+action.
func ResponseTopic(prefix, deviceKey, action string) string {
	return fmt.Sprintf("%s/%s/%s/response", prefix, deviceKey, action)
}
