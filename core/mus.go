package core

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the records persisted in the tenant store.
// The schema is small enough that generated code would be overkill.

// VideoRecordMUS serializes VideoRecord values.
var VideoRecordMUS = videoRecordMUS{}

// TenantRecordMUS serializes TenantRecord values.
var TenantRecordMUS = tenantRecordMUS{}

type videoRecordMUS struct{}

func (videoRecordMUS) Marshal(v VideoRecord, buf []byte) (n int) {
	n = ord.String.Marshal(v.ID, buf)
	n += ord.String.Marshal(v.Title, buf[n:])
	n += ord.String.Marshal(v.URL, buf[n:])
	n += varint.Int.Marshal(v.DurationSeconds, buf[n:])
	n += ord.String.Marshal(v.ChannelID, buf[n:])
	return n
}

func (videoRecordMUS) Unmarshal(buf []byte) (v VideoRecord, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(buf); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(buf[n:]); err != nil {
		return
	}
	n += n1
	if v.URL, n1, err = ord.String.Unmarshal(buf[n:]); err != nil {
		return
	}
	n += n1
	if v.DurationSeconds, n1, err = varint.Int.Unmarshal(buf[n:]); err != nil {
		return
	}
	n += n1
	if v.ChannelID, n1, err = ord.String.Unmarshal(buf[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (videoRecordMUS) Size(v VideoRecord) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.URL)
	size += varint.Int.Size(v.DurationSeconds)
	size += ord.String.Size(v.ChannelID)
	return size
}

type tenantRecordMUS struct{}

func (tenantRecordMUS) Marshal(v TenantRecord, buf []byte) (n int) {
	n = ord.String.Marshal(v.TenantID, buf)
	n += ord.String.Marshal(v.ChannelTitle, buf[n:])
	n += ord.String.Marshal(v.ChannelURL, buf[n:])
	n += varint.Int.Marshal(len(v.Videos), buf[n:])
	for i := range v.Videos {
		n += VideoRecordMUS.Marshal(v.Videos[i], buf[n:])
	}
	n += varint.Int64.Marshal(v.IngestedAt.UnixMicro(), buf[n:])
	return n
}

func (tenantRecordMUS) Unmarshal(buf []byte) (v TenantRecord, n int, err error) {
	var n1 int
	if v.TenantID, n, err = ord.String.Unmarshal(buf); err != nil {
		return
	}
	if v.ChannelTitle, n1, err = ord.String.Unmarshal(buf[n:]); err != nil {
		return
	}
	n += n1
	if v.ChannelURL, n1, err = ord.String.Unmarshal(buf[n:]); err != nil {
		return
	}
	n += n1
	var count int
	if count, n1, err = varint.Int.Unmarshal(buf[n:]); err != nil {
		return
	}
	n += n1
	// Each serialized video occupies at least one byte, so a count beyond
	// the remaining buffer cannot be honest. Reject it before allocating.
	if count < 0 || count > len(buf)-n {
		err = fmt.Errorf("%w: video count %d exceeds remaining %d bytes", ErrMalformedRecord, count, len(buf)-n)
		return
	}
	if count > 0 {
		v.Videos = make([]VideoRecord, count)
		for i := 0; i < count; i++ {
			if v.Videos[i], n1, err = VideoRecordMUS.Unmarshal(buf[n:]); err != nil {
				return
			}
			n += n1
		}
	}
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(buf[n:]); err != nil {
		return
	}
	n += n1
	v.IngestedAt = time.UnixMicro(micros).UTC()
	return
}

func (tenantRecordMUS) Size(v TenantRecord) (size int) {
	size = ord.String.Size(v.TenantID)
	size += ord.String.Size(v.ChannelTitle)
	size += ord.String.Size(v.ChannelURL)
	size += varint.Int.Size(len(v.Videos))
	for i := range v.Videos {
		size += VideoRecordMUS.Size(v.Videos[i])
	}
	size += varint.Int64.Size(v.IngestedAt.UnixMicro())
	return size
}
