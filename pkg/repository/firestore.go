package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/frontdesk-dev/frontdesk/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names follow the deployed Firestore layout.
const (
	collectionKnowledge          = "knowledge_base"
	collectionHelpRequest        = "help_request"
	collectionHelpRequestHistory = "help_request_history"
	collectionSupervisorResponse = "supervisor_response"
)

// Firestore implements Repository using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying Firestore client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) PutKnowledge(ctx context.Context, entry *model.KnowledgeEntry) error {
	if entry.ID == "" {
		entry.ID = model.NewEntryID()
	}

	doc := r.client.Collection(collectionKnowledge).Doc(string(entry.ID))
	if _, err := doc.Set(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to put knowledge entry", goerr.V("id", entry.ID))
	}

	return nil
}

func (r *Firestore) ListKnowledge(ctx context.Context) ([]*model.KnowledgeEntry, error) {
	iter := r.client.Collection(collectionKnowledge).Documents(ctx)
	defer iter.Stop()

	var entries []*model.KnowledgeEntry
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate knowledge entries")
		}

		var entry model.KnowledgeEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode knowledge entry", goerr.V("doc", doc.Ref.ID))
		}
		if entry.ID == "" {
			entry.ID = model.EntryID(doc.Ref.ID)
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

func (r *Firestore) PutHelpRequest(ctx context.Context, req *model.HelpRequest) error {
	doc := r.client.Collection(collectionHelpRequest).Doc(string(req.ID))
	if _, err := doc.Set(ctx, req); err != nil {
		return goerr.Wrap(err, "failed to put help request", goerr.V("request_id", req.ID))
	}

	return nil
}

func (r *Firestore) GetHelpRequest(ctx context.Context, id model.RequestID) (*model.HelpRequest, error) {
	doc, err := r.client.Collection(collectionHelpRequest).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrRequestNotFound, "help request", goerr.V("request_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get help request", goerr.V("request_id", id))
	}

	var req model.HelpRequest
	if err := doc.DataTo(&req); err != nil {
		return nil, goerr.Wrap(err, "failed to decode help request", goerr.V("request_id", id))
	}

	return &req, nil
}

func (r *Firestore) ListHelpRequests(ctx context.Context) ([]*model.HelpRequest, error) {
	iter := r.client.Collection(collectionHelpRequest).Documents(ctx)
	defer iter.Stop()

	var reqs []*model.HelpRequest
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate help requests")
		}

		var req model.HelpRequest
		if err := doc.DataTo(&req); err != nil {
			return nil, goerr.Wrap(err, "failed to decode help request", goerr.V("doc", doc.Ref.ID))
		}
		reqs = append(reqs, &req)
	}

	return reqs, nil
}

func (r *Firestore) UpdateHelpRequestStatus(ctx context.Context, id model.RequestID, st model.RequestStatus) error {
	if err := st.Validate(); err != nil {
		return err
	}

	doc := r.client.Collection(collectionHelpRequest).Doc(string(id))
	_, err := doc.Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrRequestNotFound, "help request", goerr.V("request_id", id))
		}
		return goerr.Wrap(err, "failed to update help request status",
			goerr.V("request_id", id), goerr.V("status", st))
	}

	return nil
}

func (r *Firestore) PutHistory(ctx context.Context, hist *model.HelpRequestHistory) error {
	doc := r.client.Collection(collectionHelpRequestHistory).Doc(string(hist.ID))
	if _, err := doc.Set(ctx, hist); err != nil {
		return goerr.Wrap(err, "failed to put request history", goerr.V("request_id", hist.ID))
	}

	return nil
}

func (r *Firestore) GetHistory(ctx context.Context, id model.RequestID) (*model.HelpRequestHistory, error) {
	doc, err := r.client.Collection(collectionHelpRequestHistory).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrRequestNotFound, "request history", goerr.V("request_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get request history", goerr.V("request_id", id))
	}

	var hist model.HelpRequestHistory
	if err := doc.DataTo(&hist); err != nil {
		return nil, goerr.Wrap(err, "failed to decode request history", goerr.V("request_id", id))
	}

	return &hist, nil
}

func (r *Firestore) ListHistory(ctx context.Context) ([]*model.HelpRequestHistory, error) {
	iter := r.client.Collection(collectionHelpRequestHistory).Documents(ctx)
	defer iter.Stop()

	var hists []*model.HelpRequestHistory
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate request history")
		}

		var hist model.HelpRequestHistory
		if err := doc.DataTo(&hist); err != nil {
			return nil, goerr.Wrap(err, "failed to decode request history", goerr.V("doc", doc.Ref.ID))
		}
		hists = append(hists, &hist)
	}

	return hists, nil
}

func (r *Firestore) PutSupervisorResponse(ctx context.Context, resp *model.SupervisorResponse) error {
	doc := r.client.Collection(collectionSupervisorResponse).Doc(string(resp.ID))
	if _, err := doc.Set(ctx, resp); err != nil {
		return goerr.Wrap(err, "failed to put supervisor response",
			goerr.V("id", resp.ID), goerr.V("request_id", resp.RequestID))
	}

	return nil
}

func (r *Firestore) ListSupervisorResponses(ctx context.Context) ([]*model.SupervisorResponse, error) {
	iter := r.client.Collection(collectionSupervisorResponse).Documents(ctx)
	defer iter.Stop()

	var resps []*model.SupervisorResponse
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate supervisor responses")
		}

		var resp model.SupervisorResponse
		if err := doc.DataTo(&resp); err != nil {
			return nil, goerr.Wrap(err, "failed to decode supervisor response", goerr.V("doc", doc.Ref.ID))
		}
		resps = append(resps, &resp)
	}

	return resps, nil
}
