package mailqueue

import (
	"bytes"
	"errors"
	"log"
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

type fakeAcknowledger struct {
	acks     int
	nacks    int
	requeues []bool
	err      error
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acks++
	return f.err
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacks++
	f.requeues = append(f.requeues, requeue)
	return f.err
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.err
}

func delivery(ack amqp.Acknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestHandleDeliveryAcksOnSuccess(t *testing.T) {
	ack := &fakeAcknowledger{}
	var got EmailMessage

	handleDelivery(delivery(ack, `{"to":"user@example.com","subject":"hi","body":"<p>hi</p>"}`),
		func(msg EmailMessage) error {
			got = msg
			return nil
		})

	assert.Equal(t, "user@example.com", got.To)
	assert.Equal(t, 1, ack.acks)
	assert.Equal(t, 0, ack.nacks)
}

func TestHandleDeliveryNacksOnHandlerError(t *testing.T) {
	ack := &fakeAcknowledger{}

	handleDelivery(delivery(ack, `{"to":"user@example.com"}`), func(EmailMessage) error {
		return errors.New("smtp down")
	})

	assert.Equal(t, 0, ack.acks)
	assert.Equal(t, 1, ack.nacks)
	// No requeue: there are no delivery retries in this design.
	assert.Equal(t, []bool{false}, ack.requeues)
}

func TestHandleDeliveryDiscardsMalformedBody(t *testing.T) {
	ack := &fakeAcknowledger{}
	called := false

	handleDelivery(delivery(ack, `{not json`), func(EmailMessage) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.Equal(t, 1, ack.nacks)
	assert.Equal(t, []bool{false}, ack.requeues)
}

func TestHandleDeliveryLogsSettlementFailures(t *testing.T) {
	orig := log.Writer()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	ack := &fakeAcknowledger{err: errors.New("channel closed")}
	handleDelivery(delivery(ack, `{"to":"user@example.com"}`), func(EmailMessage) error {
		return nil
	})
	assert.Contains(t, buf.String(), "Failed to ack mail message")

	buf.Reset()
	handleDelivery(delivery(ack, `{"to":"user@example.com"}`), func(EmailMessage) error {
		return errors.New("smtp down")
	})
	assert.Contains(t, buf.String(), "Failed to nack mail message")
}
