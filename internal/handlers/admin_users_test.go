package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/valencire/backend/internal/auth"
)

func deleteUserRouter(db *mongo.Database, caller *auth.Claims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/api/admin/users/:id", withClaims(caller), DeleteUser(db))
	return r
}

func TestDeleteUserSelfDeleteRejected(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("self delete", func(mt *mtest.T) {
		callerID := primitive.NewObjectID()
		caller := &auth.Claims{UserID: callerID.Hex(), Email: "admin@valencire.com", IsAdmin: true}

		// No responses queued: the guard must fire before any store call.
		r := deleteUserRouter(mt.Client.Database("valencire"), caller)
		w := performJSON(r, "DELETE", "/api/admin/users/"+callerID.Hex(), "")

		assert.Equal(mt, http.StatusBadRequest, w.Code)
		resp := decodeBody(mt, w)
		assert.Equal(mt, "You cannot delete your own account", resp["message"])
	})
}

func TestDeleteUserInvalidID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("invalid id", func(mt *mtest.T) {
		caller := &auth.Claims{UserID: primitive.NewObjectID().Hex(), Email: "admin@valencire.com", IsAdmin: true}
		r := deleteUserRouter(mt.Client.Database("valencire"), caller)
		w := performJSON(r, "DELETE", "/api/admin/users/not-an-id", "")
		assert.Equal(mt, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteUserNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("unknown target", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "valencire.users", mtest.FirstBatch))

		caller := &auth.Claims{UserID: primitive.NewObjectID().Hex(), Email: "admin@valencire.com", IsAdmin: true}
		r := deleteUserRouter(mt.Client.Database("valencire"), caller)
		w := performJSON(r, "DELETE", "/api/admin/users/"+primitive.NewObjectID().Hex(), "")

		assert.Equal(mt, http.StatusNotFound, w.Code)
		resp := decodeBody(mt, w)
		assert.Equal(mt, "User not found", resp["message"])
	})
}

func TestDeleteUserRemovesOrdersBeforeAccount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("delete order", func(mt *mtest.T) {
		targetID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "valencire.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: targetID},
				{Key: "firstName", Value: "Bob"},
				{Key: "lastName", Value: "Jones"},
				{Key: "email", Value: "bob@example.com"},
				{Key: "isAdmin", Value: false},
			}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		caller := &auth.Claims{UserID: primitive.NewObjectID().Hex(), Email: "admin@valencire.com", IsAdmin: true}
		r := deleteUserRouter(mt.Client.Database("valencire"), caller)
		w := performJSON(r, "DELETE", "/api/admin/users/"+targetID.Hex(), "")
		require.Equal(mt, http.StatusOK, w.Code)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, "find", find.CommandName)

		ordersDelete := mt.GetStartedEvent()
		require.NotNil(mt, ordersDelete)
		require.Equal(mt, "delete", ordersDelete.CommandName)
		assert.Equal(mt, "orders", ordersDelete.Command.Lookup("delete").StringValue())

		userDelete := mt.GetStartedEvent()
		require.NotNil(mt, userDelete)
		require.Equal(mt, "delete", userDelete.CommandName)
		assert.Equal(mt, "users", userDelete.Command.Lookup("delete").StringValue())
	})
}
