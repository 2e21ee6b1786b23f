package service

// Messages returned in response envelopes.
const (
	MsgLoginSuccessful      = "Login successful"
	MsgInvalidCredentials   = "Invalid email or password"
	MsgTaskCreated          = "Task created successfully"
	MsgTaskUpdated          = "Task updated successfully"
	MsgTaskAssigned         = "Task assigned successfully"
	MsgTaskStatusUpdated    = "Task status updated successfully"
	MsgTaskDeleted          = "Task deleted successfully"
	MsgTaskNotFound         = "Task not found"
	MsgCreatedByNotFound    = "Created by user not found"
	MsgAssignedUserNotFound = "Assigned user not found"
	MsgAssigneeNotFound     = "User to assign not found"
	MsgNotYourTask          = "You can only update status of tasks assigned to you"
	MsgTeamCreated          = "Team created successfully"
	MsgTeamUpdated          = "Team updated successfully"
	MsgTeamDeleted          = "Team deleted successfully"
	MsgTeamNotFound         = "Team not found"
	MsgTeamHasTasks         = "Cannot delete team with associated tasks"
	MsgMemberAdded          = "Member added successfully"
	MsgMemberRemoved        = "Member removed successfully"
	MsgAlreadyMember        = "User is already a member of this team"
	MsgNotMember            = "User is not a member of this team"
	MsgUserCreated          = "User created successfully"
	MsgUserUpdated          = "User updated successfully"
	MsgUserDeleted          = "User deleted successfully"
	MsgUserNotFound         = "User not found"
	MsgEmailExists          = "Email already exists"
	MsgUserHasTasks         = "Cannot delete user with associated tasks"
)
