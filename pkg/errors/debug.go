package errors

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	MongoCodes  []int32  `json:"mongo_codes,omitempty"`
	MongoLabels []string `json:"mongo_labels,omitempty"`
	MongoDetail string   `json:"mongo_detail,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			d.MongoCodes = append(d.MongoCodes, int32(we.Code))
		}
		if writeErr.WriteConcernError != nil {
			d.MongoCodes = append(d.MongoCodes, int32(writeErr.WriteConcernError.Code))
		}
		d.MongoLabels = writeErr.Labels
		d.MongoDetail = writeErr.Error()
		return d
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		d.MongoCodes = []int32{cmdErr.Code}
		d.MongoLabels = cmdErr.Labels
		d.MongoDetail = cmdErr.Message
		return d
	}

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) {
		for _, we := range bulkErr.WriteErrors {
			d.MongoCodes = append(d.MongoCodes, int32(we.Code))
		}
		d.MongoLabels = bulkErr.Labels
		d.MongoDetail = bulkErr.Error()
	}

	return d
}
